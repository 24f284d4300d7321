package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/bugai/backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
	*responder
}

func NewUserHandler(users *services.UserService, r *responder) *UserHandler {
	return &UserHandler{users: users, responder: r}
}

// GetUserProfile returns a user's public profile
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, http.StatusNotFound)
		return
	}
	h.ok(c, http.StatusOK, "user retrieved", user)
}
