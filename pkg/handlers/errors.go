package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"restockwatch/pkg/logger"
	"restockwatch/pkg/monitor"
	"restockwatch/pkg/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Common error type definitions
var (
	ErrResourceNotFound   = errors.New("resource not found")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTooManyRequests    = errors.New("too many requests")
)

// APIError represents a custom API error structure
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API Error (Code: %d, Message: %s): %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("API Error (Code: %d, Message: %s)", e.Code, e.Message)
}

// Unwrap supports error wrapping
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new API error
func NewAPIError(code int, message string, err error) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}

// HandleError writes err as a JSON error body with a status derived from it.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		switch {
		case errors.Is(err, monitor.ErrRunInProgress):
			apiErr = NewAPIError(http.StatusConflict, "A run is already in progress", err)
		case errors.Is(err, ErrTooManyRequests):
			apiErr = NewAPIError(http.StatusTooManyRequests, "Manual runs are rate limited", err)
		case errors.Is(err, ErrResourceNotFound), errors.Is(err, scheduler.ErrJobNotFound):
			apiErr = NewAPIError(http.StatusNotFound, "Resource not found", err)
		case errors.Is(err, ErrServiceUnavailable):
			apiErr = NewAPIError(http.StatusServiceUnavailable, "Service unavailable", err)
		default:
			logger.Error("Unexpected error occurred", zap.Error(err))
			_ = c.Error(err)
			c.Status(http.StatusInternalServerError)
			return
		}
	}

	if apiErr.Err != nil && apiErr.Details == "" {
		apiErr.Details = apiErr.Err.Error()
	}
	logger.Warn("API error occurred",
		zap.Int("code", apiErr.Code),
		zap.String("message", apiErr.Message),
		zap.String("details", apiErr.Details))

	c.JSON(apiErr.Code, gin.H{
		"error":   true,
		"code":    apiErr.Code,
		"message": apiErr.Message,
		"details": apiErr.Details,
	})
}
