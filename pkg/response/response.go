package response

import (
	"net/http"

	"anoa.com/squadhub/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserIDKey is the gin context key the auth middleware stores the token subject under.
const UserIDKey = "user_id"

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, apperror.Unauthorized("authorization required")
	}

	str, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("invalid token subject")
	}

	userID, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid token subject")
	}

	return userID, nil
}

// ParamUUID parses a path parameter as a UUID.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("invalid " + name)
	}
	return id, nil
}

// Error writes the standardized error body: {"error": message, "code": code}.
func Error(c *gin.Context, err error) {
	status := apperror.MapErrorToStatus(err)

	// Log server-side failures
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  apperror.CodeOf(err),
	})
}
