package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

const authFailedKey = "auth_failed"

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	case domain.KindMalformed, domain.KindHTTP:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error","code","request_id"} with the status for the
// error's kind. Errors outside the taxonomy are logged and hidden.
func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		slog.Error("[api] unexpected error", "path", c.FullPath(), "request_id", GetRequestID(c), "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "internal error",
			"code":       "internal",
			"request_id": GetRequestID(c),
		})
		return
	}

	if de.Kind == domain.KindAuthentication {
		c.Set(authFailedKey, true)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(de.Kind), gin.H{
		"error":      de.Error(),
		"code":       de.Kind,
		"request_id": GetRequestID(c),
	})
}

// bindJSON binds the body or answers 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, domain.Validation("invalid request body: %v", err))
		return false
	}
	return true
}
