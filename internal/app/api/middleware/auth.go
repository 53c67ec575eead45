package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/logctx"
	"github.com/subwise/subtrack/pkg/response"
)

const userIDKey = "user_id"

// AuthMiddleware resolves a bearer token to a user identity. The token is an
// HS256 JWT issued by the external auth provider; its subject claim is the
// user id. No token, a bad signature, or an expired token all end the
// request with 401.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		c.Set(userIDKey, sub)
		c.Request = c.Request.WithContext(logctx.WithUserID(c.Request.Context(), sub))
		c.Next()
	}
}

// UserID returns the authenticated user id attached by AuthMiddleware.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// CronSecretMiddleware gates the batch trigger endpoint with a shared
// secret. A server without a configured secret rejects everything rather
// than running open.
func CronSecretMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := cfg.Engine.CronSecret
		got := c.GetHeader("X-Cron-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(got)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid secret"))
			return
		}
		c.Next()
	}
}
