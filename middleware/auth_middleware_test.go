package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trungminh/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger())

	authed := router.Group("/", AuthMiddleware(testSecret))
	authed.GET("/whoami", func(c *gin.Context) {
		userID, isAdmin, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "admin": isAdmin})
	})
	authed.GET("/admin", RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := utils.GenerateJWTTokenWithSecret(userID, "Test", role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWTTokenWithSecret() error = %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	router := setupTestRouter()
	userID := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		path   string
		header string
		ws     bool
		want   int
	}{
		{name: "no token", path: "/whoami", want: http.StatusUnauthorized},
		{name: "not bearer", path: "/whoami", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "bad token", path: "/whoami", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "non-object-id subject", path: "/whoami", header: "Bearer " + tokenFor(t, "user-1", "member"), want: http.StatusUnauthorized},
		{name: "valid member", path: "/whoami", header: "Bearer " + tokenFor(t, userID, "member"), want: http.StatusOK},
		{name: "query token ignored for plain requests", path: "/whoami?token=" + tokenFor(t, userID, "member"), want: http.StatusUnauthorized},
		{name: "query token accepted for websocket", path: "/whoami?token=" + tokenFor(t, userID, "member"), ws: true, want: http.StatusOK},
		{name: "member on admin route", path: "/admin", header: "Bearer " + tokenFor(t, userID, "member"), want: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: "Bearer " + tokenFor(t, userID, RoleAdmin), want: http.StatusNoContent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.ws {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tt.want, w.Body.String())
			}
			if w.Header().Get(RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, utils.RequestIDFromContext(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Body.String() != "req-123" || w.Header().Get(RequestIDHeader) != "req-123" {
		t.Errorf("request id = %q / %q", w.Body.String(), w.Header().Get(RequestIDHeader))
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(CORS([]string{"https://trungminh.example"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin     string
		method     string
		wantStatus int
		wantAllow  string
	}{
		{"https://trungminh.example", http.MethodGet, http.StatusOK, "https://trungminh.example"},
		{"https://evil.example", http.MethodGet, http.StatusOK, ""},
		{"https://trungminh.example", http.MethodOptions, http.StatusNoContent, "https://trungminh.example"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/x", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tt.wantStatus {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.origin, w.Code, tt.wantStatus)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
			t.Errorf("%s %s: allow origin = %q, want %q", tt.method, tt.origin, got, tt.wantAllow)
		}
	}
}
