package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/logger"
)

// Error pages
const (
	NotFoundTemplate = "not_found.html"
	ErrorTemplate    = "error.html"

	GenericErrorMessage = "Something went wrong"
)

// HandleError renders the response matching err. Not found errors show the
// 404 page, authentication failures go back to login and everything else is
// logged and shown as a generic error page.
func HandleError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		RenderNotFound(c)
	case apperrors.Is(err, apperrors.ErrSessionNotFound, apperrors.ErrPermissionDenied):
		c.Redirect(http.StatusFound, LoginPath)
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.HTML(http.StatusBadRequest, ErrorTemplate, gin.H{
			"title":   "Invalid request",
			"message": apperrors.UserMessage(err, "Invalid request"),
		})
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		c.HTML(http.StatusRequestEntityTooLarge, ErrorTemplate, gin.H{
			"title":   "Upload too large",
			"message": "File too large! Max limit is 2MB.",
		})
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.HTML(http.StatusInternalServerError, ErrorTemplate, gin.H{
			"title":   "Error",
			"message": GenericErrorMessage,
		})
	}
}

// RenderNotFound renders the 404 page
func RenderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, NotFoundTemplate, gin.H{
		"title": "Not found",
		"path":  c.Request.URL.Path,
	})
}

// Recovery turns panics into logged 500 pages
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.HTML(http.StatusInternalServerError, ErrorTemplate, gin.H{
			"title":   "Error",
			"message": GenericErrorMessage,
		})
		c.Abort()
	})
}
