package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subwise/subtrack/pkg/config"
)

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret"}}

	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", authHeader: "Bearer " + signToken(t, "test-secret", "u1"), wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", authHeader: "Bearer " + signToken(t, "other-secret", "u1"), wantStatus: http.StatusUnauthorized},
		{name: "no subject", authHeader: "Bearer " + signToken(t, "test-secret", ""), wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestCronSecretMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(secret string) *gin.Engine {
		cfg := &config.Config{Engine: config.EngineConfig{CronSecret: secret}}
		r := gin.New()
		r.Use(CronSecretMiddleware(cfg))
		r.POST("/run", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("matching secret passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/run", nil)
		req.Header.Set("X-Cron-Secret", "s3cret")
		w := httptest.NewRecorder()
		newRouter("s3cret").ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/run", nil)
		req.Header.Set("X-Cron-Secret", "nope")
		w := httptest.NewRecorder()
		newRouter("s3cret").ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfigured secret rejects everything", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/run", nil)
		req.Header.Set("X-Cron-Secret", "")
		w := httptest.NewRecorder()
		newRouter("").ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
