package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"trungminh/config"
	"trungminh/jobs"
	"trungminh/routes"
	"trungminh/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env before config.LoadConfig reads the environment.
	loadEnvFile()

	config.LoadConfig()
	cfg := config.AppConfig
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := config.CreateContext(cfg.MongoTimeout)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		utils.LogFatal("Failed to connect to MongoDB", err)
	}

	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			utils.LogError("Failed to disconnect MongoDB", err)
		}
	}()

	if err = mongoClient.Ping(ctx, nil); err != nil {
		utils.LogFatal("Failed to ping MongoDB", err)
	}
	utils.LogInfo("Connected to MongoDB successfully")

	container, err := routes.NewServiceContainer(ctx, mongoClient.Database(cfg.DatabaseName), cfg)
	if err != nil {
		utils.LogFatal("Failed to initialize services", err)
	}
	if container.MediaService == nil {
		utils.LogWarning("B2 is not configured, thumbnail uploads are disabled")
	}

	router := routes.NewRouter(container)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	if cfg.StatsRefreshInterval > 0 {
		go jobs.NewStatsRefresher(container.NotificationStats, cfg.StatsRefreshInterval).Start(jobCtx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Logger().Info().Str("port", cfg.Port).Msg("Starting notification server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogFatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	stopJobs()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server forced to shut down", err)
	}
}

// loadEnvFile loads the first .env found in the usual locations.
func loadEnvFile() {
	pwd, err := os.Getwd()
	if err != nil {
		utils.LogError("Could not get working directory", err)
		return
	}

	envPaths := []string{
		".env",
		"../.env",
		filepath.Join(pwd, ".env"),
		filepath.Join(filepath.Dir(pwd), ".env"),
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			utils.Logger().Warn().Err(err).Str("path", envPath).Msg("Failed to load .env")
			continue
		}
		utils.Logger().Info().Str("path", envPath).Msg("Loaded environment variables")
		return
	}

	utils.LogInfo("No .env file found, using system environment variables")
}
