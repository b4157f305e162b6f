package controllers

import (
	"net/http"
	"time"

	"trungminh/realtime"
	"trungminh/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	hub            *realtime.Hub
	allowedOrigins []string
}

func NewRealtimeController(hub *realtime.Hub, allowedOrigins []string) *RealtimeController {
	return &RealtimeController{hub: hub, allowedOrigins: allowedOrigins}
}

func (rc *RealtimeController) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      rc.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkOrigin accepts configured browser origins. Clients without an Origin
// header are not browsers and are already authenticated by token.
func (rc *RealtimeController) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(rc.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range rc.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	utils.Ctx(r.Context()).Warn().Str("origin", origin).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// Stream upgrades the request and pushes the caller's notification events.
func (rc *RealtimeController) Stream(c *gin.Context) {
	userID := c.GetString("userIdStr")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	// Subscribed before the handshake completes so no event published right
	// after the client connects is missed.
	events, unsubscribe := rc.hub.Subscribe(userID)

	upgrader := rc.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		unsubscribe()
		// Upgrade has already written the HTTP error.
		utils.Ctx(c.Request.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	realtime.Serve(conn, userID, events, unsubscribe)
}
