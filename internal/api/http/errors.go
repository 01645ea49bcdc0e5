package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/explorer"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, desktop.ErrSessionNotFound),
		errors.Is(err, desktop.ErrUnknownApp),
		errors.Is(err, explorer.ErrNodeNotFound),
		errors.Is(err, explorer.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, desktop.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, desktop.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, desktop.ErrUsernameRequired),
		errors.Is(err, desktop.ErrPasswordRequired),
		errors.Is(err, desktop.ErrInvalidWindow),
		errors.Is(err, desktop.ErrBadQuery),
		errors.Is(err, desktop.ErrInvalidSettings),
		errors.Is(err, explorer.ErrInvalidViewMode):
		return http.StatusBadRequest
	case errors.Is(err, desktop.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, desktop.ErrTooManySessions):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body and records it on the context.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if !desktop.IsClientError(err) && status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// badRequest rejects a request whose body could not be used. A body cut
// off by the size limit is reported as 413.
func badRequest(c *gin.Context, err error) {
	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		err = fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func errInvalidItemType(t explorer.ItemType) error {
	return fmt.Errorf("invalid item type %q", t)
}
