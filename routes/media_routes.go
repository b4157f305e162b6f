package routes

import (
	"trungminh/controllers"
	"trungminh/middleware"
	"trungminh/services"

	"github.com/gin-gonic/gin"
)

func RegisterMediaRoutes(rg *gin.RouterGroup, jwtSecret string, mediaService *services.MediaService) {
	mediaController := controllers.NewMediaController(mediaService)

	media := rg.Group("/media")
	media.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(middleware.RoleAdmin))
	{
		media.POST("/thumbnails", mediaController.UploadThumbnail) // POST /media/thumbnails
	}
}
