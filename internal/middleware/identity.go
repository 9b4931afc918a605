// Package middleware provides Gin middleware for the HTTP layer.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipstack/video-service/internal/models"
	"github.com/clipstack/video-service/pkg/logger"
)

const (
	// HeaderUserID carries the acting user's identity, set by the gateway
	// in front of this service.
	HeaderUserID = "X-User-ID"

	contextUserIDKey = "actingUserID"
)

// Identity extracts the acting user from the X-User-ID header. Requests
// without a parseable user ID are rejected; every route behind this
// middleware can rely on ActingUser returning a valid UUID.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIError{
				StatusCode: http.StatusUnauthorized,
				Message:    "missing " + HeaderUserID + " header",
				Success:    false,
			})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			logger.Log.Warn("Malformed user ID header",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusBadRequest, models.APIError{
				StatusCode: http.StatusBadRequest,
				Message:    HeaderUserID + " must be a valid UUID",
				Success:    false,
			})
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// ActingUser returns the user ID stored by Identity. The second return is
// false when the middleware did not run on this route.
func ActingUser(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}
