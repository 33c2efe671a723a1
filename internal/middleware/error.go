package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/logger"
)

// WriteError renders err as the JSON error envelope. AppErrors keep their
// code and message; anything else becomes INTERNAL_ERROR with the details
// only in the log. The request ID is echoed so a user can quote it.
func WriteError(c *gin.Context, err error) {
	log := logger.Get().With(
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		logger.FieldRequestID, RequestID(c),
	)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("unexpected error", logger.FieldError, err.Error())
		appErr = apperrors.ErrInternalServer
	}

	switch {
	case appErr.Internal != nil:
		log.Errorw("app error", "code", appErr.Code, "internal", appErr.Internal.Error())
	case appErr.Code == apperrors.ErrConflict.Code:
		// Compare-and-swap retries ran out; worth noticing if it repeats.
		log.Warnw("write conflict", "code", appErr.Code)
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if id := RequestID(c); id != "" {
		body["request_id"] = id
	}
	c.JSON(appErr.StatusCode, gin.H{"error": body})
}

// ErrorHandler renders the last error a handler attached with c.Error,
// unless the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteError(c, c.Errors.Last().Err)
	}
}

// NoRoute answers unknown paths with the NOT_FOUND envelope.
func NoRoute(c *gin.Context) {
	WriteError(c, apperrors.WithMessage(apperrors.ErrNotFound, http.StatusText(http.StatusNotFound)))
}
