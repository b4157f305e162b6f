package utils

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

var (
	logger zerolog.Logger
	logMu  sync.RWMutex
)

func init() {
	InitLogger("info", "json", os.Stderr)
}

// InitLogger configures the process-wide logger. format is "json" or "console".
func InitLogger(level, format string, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	logMu.Lock()
	logger = zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
	logMu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func Logger() *zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	l := logger
	return &l
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the logger with the request ID of ctx attached, if any.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := Logger()
	if id := RequestIDFromContext(ctx); id != "" {
		withID := l.With().Str("request_id", id).Logger()
		return &withID
	}
	return l
}

func LogInfo(message string) {
	Logger().Info().Msg(message)
}

func LogWarning(message string) {
	Logger().Warn().Msg(message)
}

func LogError(message string, err error) {
	Logger().Error().Err(err).Msg(message)
}

func LogFatal(message string, err error) {
	Logger().Fatal().Err(err).Msg(message)
}
