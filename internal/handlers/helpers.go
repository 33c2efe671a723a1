package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/middleware"
	"lifeboard/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID validates a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD value, mapping failures to ErrInvalidDate.
func parseDate(raw string) (time.Time, error) {
	d, err := calendar.ParseISODate(raw)
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	return d, nil
}

// parseReferenceDate reads the caller's local date from the query string,
// defaulting to the UTC date of now when the parameter is absent. Callers read
// the clock once per request and pass that reading here.
func parseReferenceDate(c *gin.Context, param string, now time.Time) (time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return calendar.Today(now), nil
	}
	return parseDate(raw)
}

// respondWithError writes the shared JSON error envelope.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
