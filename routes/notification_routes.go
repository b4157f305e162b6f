package routes

import (
	"trungminh/controllers"
	"trungminh/middleware"
	"trungminh/services"

	"github.com/gin-gonic/gin"
)

func RegisterNotificationRoutes(rg *gin.RouterGroup, jwtSecret string, notificationService *services.NotificationService, stats *services.NotificationStats) {
	notificationController := controllers.NewNotificationController(notificationService, stats)

	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(jwtSecret))
	{
		notifications.GET("/me", notificationController.ListMyNotifications)    // GET /notifications/me
		notifications.PATCH("/read-all", notificationController.MarkAllRead)    // PATCH /notifications/read-all
		notifications.PATCH("/:id/read", notificationController.MarkRead)       // PATCH /notifications/:id/read
		notifications.DELETE("/:id", notificationController.DeleteNotification) // DELETE /notifications/:id
	}

	admin := notifications.Group("")
	admin.Use(middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.POST("", notificationController.CreateNotification) // POST /notifications
		admin.GET("", notificationController.ListNotifications)   // GET /notifications
		admin.GET("/stats", notificationController.GetStats)      // GET /notifications/stats
	}
}
