package handlers

import (
	"log/slog"

	"github.com/emilythestrangee/bugai/backend/internal/logger"
	"github.com/emilythestrangee/bugai/backend/internal/services"
	"github.com/emilythestrangee/bugai/backend/internal/telemetry"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Case    *CaseHandler
	Comment *CommentHandler
	Like    *LikeHandler
	User    *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers. reporter may be nil.
func NewHandler(svc *services.Services, reporter *telemetry.Reporter, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	r := &responder{reporter: reporter, logger: logger.Module(log, "http")}

	return &Handler{
		Auth:    NewAuthHandler(svc.Users, r),
		Case:    NewCaseHandler(svc.Cases, r),
		Comment: NewCommentHandler(svc.Cases, r),
		Like:    NewLikeHandler(svc.Cases, r),
		User:    NewUserHandler(svc.Users, r),
	}
}
