package middleware

import (
	"net/http"
	"strings"

	"trungminh/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleAdmin = "admin"

// AuthMiddleware verifies the Bearer token. WebSocket upgrades may pass it as
// the "token" query parameter since browsers cannot set headers there.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" && c.IsWebsocket() {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization token required", nil)
			c.Abort()
			return
		}

		claims, err := utils.VerifyJWTTokenWithSecret(token, jwtSecret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid user ID in token", nil)
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Set("userIdStr", claims.UserID)
		c.Set("name", claims.Name)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User role not found", nil)
			c.Abort()
			return
		}

		userRole, ok := role.(string)
		if !ok || userRole != requiredRole {
			utils.ForbiddenResponse(c, "Insufficient privileges")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user's ID and whether they are an admin.
func CurrentUser(c *gin.Context) (primitive.ObjectID, bool, bool) {
	value, exists := c.Get("userId")
	if !exists {
		return primitive.NilObjectID, false, false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, false, false
	}
	return userID, c.GetString("role") == RoleAdmin, true
}
