package routes

import (
	"trungminh/controllers"
	"trungminh/middleware"
	"trungminh/realtime"

	"github.com/gin-gonic/gin"
)

func RegisterRealtimeRoutes(rg *gin.RouterGroup, jwtSecret string, hub *realtime.Hub, allowedOrigins []string) {
	realtimeController := controllers.NewRealtimeController(hub, allowedOrigins)

	ws := rg.Group("/realtime")
	ws.Use(middleware.AuthMiddleware(jwtSecret))
	{
		ws.GET("/ws", realtimeController.Stream) // GET /realtime/ws?token=
	}
}
