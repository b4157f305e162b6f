package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"trungminh/utils"
)

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DatabaseName string
	MongoTimeout time.Duration

	JWTSecret string

	B2ApplicationKeyID string
	B2ApplicationKey   string
	B2BucketName       string

	MaxThumbnailSize int64

	StatsRefreshInterval time.Duration

	AllowedOrigins []string

	LogLevel  string
	LogFormat string
}

var AppConfig *Config

// LoadConfig loads the configuration into AppConfig and exits the process
// when it is unusable.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		utils.LogFatal("Invalid configuration", err)
	}
	AppConfig = cfg
	logConfig(cfg)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI:     getMongoURI(),
		DatabaseName: getEnv("DATABASE_NAME", "trungminh"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		B2ApplicationKeyID: getFirstEnv("B2_APPLICATION_KEY_ID", "B2_KEY_ID", "BACKBLAZE_KEY_ID"),
		B2ApplicationKey:   getFirstEnv("B2_APPLICATION_KEY", "B2_APP_KEY", "BACKBLAZE_APP_KEY"),
		B2BucketName:       getFirstEnv("B2_BUCKET_NAME", "B2_BUCKET", "BACKBLAZE_BUCKET"),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.MongoTimeout, err = parseDuration("MONGO_TIMEOUT", getEnv("MONGO_TIMEOUT", "10s")); err != nil {
		return nil, err
	}
	if cfg.StatsRefreshInterval, err = parseDuration("STATS_REFRESH_INTERVAL", getEnv("STATS_REFRESH_INTERVAL", "1m")); err != nil {
		return nil, err
	}
	if cfg.MaxThumbnailSize, err = parseInt64("MAX_THUMBNAIL_SIZE", getEnv("MAX_THUMBNAIL_SIZE", "5242880")); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// B2Enabled reports whether thumbnail uploads can be served.
func (c *Config) B2Enabled() bool {
	return c.B2ApplicationKeyID != "" && c.B2ApplicationKey != "" && c.B2BucketName != ""
}

func getMongoURI() string {
	if uri := getFirstEnv("MONGO_URI", "MONGODB_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

func getFirstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func logConfig(cfg *Config) {
	utils.Logger().Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Str("database", cfg.DatabaseName).
		Str("mongo_uri", maskConnectionString(cfg.MongoURI)).
		Str("jwt_secret", maskSecret(cfg.JWTSecret)).
		Str("b2_key_id", maskSecret(cfg.B2ApplicationKeyID)).
		Str("b2_bucket", cfg.B2BucketName).
		Int64("max_thumbnail_size", cfg.MaxThumbnailSize).
		Dur("stats_refresh_interval", cfg.StatsRefreshInterval).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded")
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if strings.Contains(uri, "@") {
		parts := strings.Split(uri, "@")
		if len(parts) >= 2 {
			return "[CREDENTIALS_HIDDEN]@" + parts[len(parts)-1]
		}
	}
	return uri
}

func (c *Config) validate() error {
	var missingVars []string

	required := map[string]string{
		"MONGO_URI/MONGODB_URI": c.MongoURI,
		"JWT_SECRET":            c.JWTSecret,
	}

	for key, value := range required {
		if value == "" {
			missingVars = append(missingVars, key)
		}
	}

	if len(missingVars) > 0 {
		sort.Strings(missingVars)
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	if c.MaxThumbnailSize <= 0 {
		return fmt.Errorf("MAX_THUMBNAIL_SIZE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt64(key, s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s=%q as integer: %w", key, s, err)
	}
	return i, nil
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s=%q as duration: %w", key, s, err)
	}
	return d, nil
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
