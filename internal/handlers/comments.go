package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/bugai/backend/internal/models"
	"github.com/emilythestrangee/bugai/backend/internal/services"
)

type CommentHandler struct {
	cases *services.CaseService
	*responder
}

func NewCommentHandler(cases *services.CaseService, r *responder) *CommentHandler {
	return &CommentHandler{cases: cases, responder: r}
}

// GetComments returns all comments for a case, newest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.cases.ListComments(c.Request.Context(), c.Param("caseId"))
	if err != nil {
		h.fail(c, err, http.StatusBadRequest)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	h.ok(c, http.StatusOK, "comments retrieved", comments)
}

// CreateComment creates a new comment on a case. Anonymous comments are allowed.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if !h.bind(c, &req) {
		return
	}

	comment, err := h.cases.CreateComment(c.Request.Context(), req.CaseID, identity(c, req.UserID, req.SessionKey), req.Content)
	if err != nil {
		h.fail(c, err, http.StatusBadRequest)
		return
	}
	h.ok(c, http.StatusCreated, "comment created", comment)
}
