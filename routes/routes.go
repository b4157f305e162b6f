package routes

import (
	"context"
	"net/http"
	"time"

	"trungminh/config"
	"trungminh/middleware"
	"trungminh/realtime"
	"trungminh/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceContainer holds all services and dependencies
type ServiceContainer struct {
	JWTSecret           string
	AllowedOrigins      []string
	NotificationService *services.NotificationService
	NotificationStats   *services.NotificationStats
	// MediaService is nil when B2 is not configured.
	MediaService *services.MediaService
	Hub          *realtime.Hub
}

// NewServiceContainer wires the MongoDB-backed services.
func NewServiceContainer(ctx context.Context, db *mongo.Database, cfg *config.Config) (*ServiceContainer, error) {
	repo := services.NewMongoNotificationRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	hub := realtime.NewHub()
	resolver := services.NewRecipientResolver(services.NewDirectoryService(db))
	activity := services.NewActivityLogService(db)

	container := &ServiceContainer{
		JWTSecret:           cfg.JWTSecret,
		AllowedOrigins:      cfg.AllowedOrigins,
		NotificationService: services.NewNotificationService(repo, resolver, hub, activity),
		NotificationStats:   services.NewNotificationStats(repo),
		Hub:                 hub,
	}

	if cfg.B2Enabled() {
		storage, err := services.NewB2Storage(ctx, cfg.B2ApplicationKeyID, cfg.B2ApplicationKey, cfg.B2BucketName)
		if err != nil {
			return nil, err
		}
		container.MediaService = services.NewMediaService(storage, cfg.MaxThumbnailSize)
	}

	return container, nil
}

// NewRouter builds the engine with global middleware, health and metrics
// endpoints and every API route group.
func NewRouter(container *ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(container.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	SetupRoutesWithContainer(api, container)
	return router
}

// SetupRoutesWithContainer configures all API routes using a service container
func SetupRoutesWithContainer(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterNotificationRoutes(api, container.JWTSecret, container.NotificationService, container.NotificationStats)
	RegisterRealtimeRoutes(api, container.JWTSecret, container.Hub, container.AllowedOrigins)
	if container.MediaService != nil {
		RegisterMediaRoutes(api, container.JWTSecret, container.MediaService)
	}
}
