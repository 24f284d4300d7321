package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/middleware"
	"github.com/emilythestrangee/bugai/backend/internal/models"
	"github.com/emilythestrangee/bugai/backend/internal/telemetry"
	"github.com/emilythestrangee/bugai/backend/internal/validation"
)

// Envelope wraps every API response
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

type responder struct {
	reporter *telemetry.Reporter
	logger   *slog.Logger
}

func (r *responder) ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{StatusCode: status, Message: message, Data: data})
}

// fail maps err to a status. Domain errors keep their own status; anything
// else gets the endpoint's fallback and is reported.
func (r *responder) fail(c *gin.Context, err error, fallback int) {
	status := fallback
	switch apperrors.CategoryOf(err) {
	case apperrors.CategoryNotFound:
		status = http.StatusNotFound
	case apperrors.CategoryValidation:
		status = http.StatusBadRequest
	case apperrors.CategoryConflict:
		status = http.StatusConflict
	case apperrors.CategoryUnauthorized:
		status = http.StatusUnauthorized
	default:
		r.logger.ErrorContext(c.Request.Context(), "request error",
			slog.String("route", c.FullPath()),
			slog.Any("error", err))
		r.reporter.CaptureRequestError(err, c.Request, c.FullPath())
	}

	_ = c.Error(err)
	c.JSON(status, Envelope{StatusCode: status, Message: err.Error()})
}

// bind decodes the JSON body; malformed bodies are validation errors
func (r *responder) bind(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		r.fail(c, validation.Translate(err), http.StatusBadRequest)
		return false
	}
	return true
}

// identity resolves the acting identity: an explicit body userId, then the
// bearer token, then an anonymous session
func identity(c *gin.Context, bodyUserID, sessionKey string) models.Identity {
	if id := models.ParseIdentity(bodyUserID, ""); !id.IsAnonymous() {
		return id
	}
	if userID, ok := middleware.UserID(c); ok {
		return models.Registered(userID)
	}
	if strings.TrimSpace(sessionKey) == "" {
		sessionKey = c.GetHeader("X-Session-Key")
	}
	return models.Anonymous(sessionKey)
}
