package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/bugai/backend/internal/models"
	"github.com/emilythestrangee/bugai/backend/internal/services"
)

type CaseHandler struct {
	cases *services.CaseService
	*responder
}

func NewCaseHandler(cases *services.CaseService, r *responder) *CaseHandler {
	return &CaseHandler{cases: cases, responder: r}
}

// CreateCase submits a case. userId in the body, or a bearer token, makes
// the submitter the owner.
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req models.CreateCaseRequest
	if !h.bind(c, &req) {
		return
	}

	created, err := h.cases.CreateCase(c.Request.Context(), req, identity(c, req.UserID, req.SessionKey))
	if err != nil {
		h.fail(c, err, http.StatusBadRequest)
		return
	}
	h.ok(c, http.StatusCreated, "case created", created)
}

// GetCases returns every case, newest first
func (h *CaseHandler) GetCases(c *gin.Context) {
	cases, err := h.cases.ListCases(c.Request.Context())
	if err != nil {
		h.fail(c, err, http.StatusInternalServerError)
		return
	}

	// If no cases, return empty array not null
	if cases == nil {
		cases = []models.Case{}
	}
	h.ok(c, http.StatusOK, "cases retrieved", cases)
}

// GetCase returns a single case and counts the view
func (h *CaseHandler) GetCase(c *gin.Context) {
	found, err := h.cases.ViewCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, http.StatusNotFound)
		return
	}
	h.ok(c, http.StatusOK, "case retrieved", found)
}

func (h *CaseHandler) GetStatistics(c *gin.Context) {
	stats, err := h.cases.Statistics(c.Request.Context())
	if err != nil {
		h.fail(c, err, http.StatusInternalServerError)
		return
	}
	h.ok(c, http.StatusOK, "statistics retrieved", stats)
}

// GetUserCases returns the cases a user submitted
func (h *CaseHandler) GetUserCases(c *gin.Context) {
	cases, err := h.cases.ListCasesByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err, http.StatusBadRequest)
		return
	}
	if cases == nil {
		cases = []models.Case{}
	}
	h.ok(c, http.StatusOK, "user cases retrieved", cases)
}

// Whip counts a whip; an authenticated caller's lifetime total goes up too
func (h *CaseHandler) Whip(c *gin.Context) {
	actor := identity(c, "", "")
	h.counter(c, "case whipped", func(ctx context.Context, id string) (*models.Case, error) {
		return h.cases.IncrementWhipCount(ctx, id, actor)
	})
}

func (h *CaseHandler) VoteAngry(c *gin.Context) {
	h.counter(c, "angry vote recorded", h.cases.VoteAngry)
}

func (h *CaseHandler) VoteLearn(c *gin.Context) {
	h.counter(c, "learn vote recorded", h.cases.VoteLearn)
}

func (h *CaseHandler) Share(c *gin.Context) {
	h.counter(c, "case shared", h.cases.ShareCase)
}

func (h *CaseHandler) View(c *gin.Context) {
	h.counter(c, "view recorded", h.cases.IncrementViewCount)
}

func (h *CaseHandler) counter(c *gin.Context, message string, op func(context.Context, string) (*models.Case, error)) {
	updated, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, http.StatusBadRequest)
		return
	}
	h.ok(c, http.StatusOK, message, updated)
}
