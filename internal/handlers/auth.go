package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/middleware"
	"github.com/emilythestrangee/bugai/backend/internal/models"
	"github.com/emilythestrangee/bugai/backend/internal/services"
)

type AuthHandler struct {
	users *services.UserService
	*responder
}

func NewAuthHandler(users *services.UserService, r *responder) *AuthHandler {
	return &AuthHandler{users: users, responder: r}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, http.StatusBadRequest)
		return
	}
	h.ok(c, http.StatusCreated, "registration successful", resp)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.Unauthorized("invalid credentials"), http.StatusUnauthorized)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, http.StatusUnauthorized)
		return
	}
	h.ok(c, http.StatusOK, "login successful", resp)
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.fail(c, apperrors.Unauthorized("unauthorized"), http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, http.StatusUnauthorized)
		return
	}
	h.ok(c, http.StatusOK, "user retrieved", user)
}
