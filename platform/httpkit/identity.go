package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CurrentUserID returns the authenticated user's ID from the gin context.
// The second return is false when no auth middleware ran for this request
// or the stored value is not a user ID.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return id, true
}

// RequireUserID returns the authenticated user's ID, aborting the request
// with 401 Unauthorized when none is present.
func RequireUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}
