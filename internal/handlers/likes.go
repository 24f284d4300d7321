package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/bugai/backend/internal/models"
	"github.com/emilythestrangee/bugai/backend/internal/services"
)

type LikeHandler struct {
	cases *services.CaseService
	*responder
}

func NewLikeHandler(cases *services.CaseService, r *responder) *LikeHandler {
	return &LikeHandler{cases: cases, responder: r}
}

// ToggleLike likes a case, or removes the caller's existing like
func (h *LikeHandler) ToggleLike(c *gin.Context) {
	var req models.ToggleLikeRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.cases.ToggleLike(c.Request.Context(), req.CaseID, identity(c, req.UserID, req.SessionKey))
	if err != nil {
		h.fail(c, err, http.StatusBadRequest)
		return
	}

	message := "case liked"
	if !result.IsLiked {
		message = "like removed"
	}
	h.ok(c, http.StatusOK, message, result)
}
