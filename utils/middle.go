package utils

import (
	"Go_Assets/pkg/logger"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware verifies the bearer token and sets user context.
// onAuth runs after verification, e.g. to provision the user row.
func AuthMiddleware(onAuth func(c *gin.Context, claims *Claims) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := VerifyToken(tokenParts[1])
		if err != nil {
			logger.Log.Debug().Err(err).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if onAuth != nil {
			if err := onAuth(c, claims); err != nil {
				logger.Log.Error().Err(err).Str("user_id", claims.Subject).Msg("provision user failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
		}
		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// RequestLogger logs one line per request with a generated request id.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		startTime := time.Now()
		c.Next()
		duration := time.Since(startTime)

		logEvent := logger.Log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			logEvent = logger.Log.Error()
		} else if c.Writer.Status() >= http.StatusBadRequest {
			logEvent = logger.Log.Warn()
		}

		logEvent.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", duration).
			Str("user_id", c.GetString("user_id")).
			Msg("request")
	}
}
