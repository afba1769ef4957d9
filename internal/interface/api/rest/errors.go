package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-api/internal/domain/role"
	"user-account-api/internal/domain/user"
)

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var verr *user.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": verr.Fields,
		})
	case errors.Is(err, user.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": user.ErrInvalidCredentials.Error()})
	case errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": user.ErrNotFound.Error()})
	case errors.Is(err, role.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": role.ErrNotFound.Error()})
	case errors.Is(err, user.ErrAlreadyExists), errors.Is(err, user.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": user.ErrAlreadyExists.Error()})
	case errors.Is(err, role.ErrSystemRole):
		c.JSON(http.StatusConflict, gin.H{"error": role.ErrSystemRole.Error()})
	case errors.Is(err, user.ErrStoreUnavailable):
		logger.Error(op+" error", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		logger.Error(op+" error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func writeInvalid(c *gin.Context, details any) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": details,
	})
}
