package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/models"
	"github.com/evandahm/reviewdesk/internal/remote"
	"github.com/evandahm/reviewdesk/internal/repository"
	"github.com/evandahm/reviewdesk/internal/review"
	"github.com/evandahm/reviewdesk/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	dashboard   *review.Dashboard
	history     *repository.DecisionLogRepository
	identityErr error
	logger      *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(dashboard *review.Dashboard, history *repository.DecisionLogRepository, identityErr error, logger *zap.Logger) *Handlers {
	return &Handlers{
		dashboard:   dashboard,
		history:     history,
		identityErr: identityErr,
		logger:      logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DecisionRequest is the submit-decision request body.
type DecisionRequest struct {
	Outcome  string `json:"outcome" binding:"required"`
	Feedback string `json:"feedback"`
}

// SelectRequest is the state/select request body.
type SelectRequest struct {
	SubmissionID int64 `json:"submission_id" binding:"required"`
}

// TabRequest is the state/tab request body.
type TabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "reviewdesk",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// blocked rejects the request when identity resolution failed at
// startup. Identity errors are fatal-to-the-view, unlike set-building
// failures which degrade to empty results.
func (h *Handlers) blocked(c *gin.Context) bool {
	if h.identityErr == nil {
		return false
	}

	status := http.StatusForbidden
	if errors.Is(h.identityErr, identity.ErrNotAuthenticated) {
		status = http.StatusUnauthorized
	}
	c.JSON(status, Response{Success: false, Error: h.identityErr.Error()})
	return true
}

// PendingSet handles GET /api/v1/review/pending
func (h *Handlers) PendingSet(c *gin.Context) {
	if h.blocked(c) {
		return
	}
	set := h.dashboard.Pending.Get(c.Request.Context())
	c.JSON(http.StatusOK, Response{Success: true, Data: set})
}

// DecidedSet handles GET /api/v1/review/decided
func (h *Handlers) DecidedSet(c *gin.Context) {
	if h.blocked(c) {
		return
	}
	set := h.dashboard.Decided.Get(c.Request.Context())
	c.JSON(http.StatusOK, Response{Success: true, Data: set})
}

// Statistics handles GET /api/v1/review/stats
func (h *Handlers) Statistics(c *gin.Context) {
	if h.blocked(c) {
		return
	}
	stats := h.dashboard.Statistics(c.Request.Context())
	c.JSON(http.StatusOK, Response{Success: true, Data: stats})
}

// State handles GET /api/v1/review/state
func (h *Handlers) State(c *gin.Context) {
	if h.blocked(c) {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: h.dashboard.State.Snapshot()})
}

// SelectSubmission handles POST /api/v1/review/state/select
func (h *Handlers) SelectSubmission(c *gin.Context) {
	if h.blocked(c) {
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "submission_id is required"})
		return
	}

	h.dashboard.State.Select(req.SubmissionID)
	c.JSON(http.StatusOK, Response{Success: true, Data: h.dashboard.State.Snapshot()})
}

// CloseSelection handles POST /api/v1/review/state/close
func (h *Handlers) CloseSelection(c *gin.Context) {
	if h.blocked(c) {
		return
	}
	h.dashboard.State.Close()
	c.JSON(http.StatusOK, Response{Success: true, Data: h.dashboard.State.Snapshot()})
}

// ChangeTab handles POST /api/v1/review/state/tab
func (h *Handlers) ChangeTab(c *gin.Context) {
	if h.blocked(c) {
		return
	}

	var req TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "tab is required"})
		return
	}

	tab := review.Tab(req.Tab)
	if tab != review.TabPending && tab != review.TabDecided {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown tab"})
		return
	}

	h.dashboard.State.ChangeTab(tab)
	c.JSON(http.StatusOK, Response{Success: true, Data: h.dashboard.State.Snapshot()})
}

// SubmitDecision handles POST /api/v1/review/submissions/:id/decision
func (h *Handlers) SubmitDecision(c *gin.Context) {
	if h.blocked(c) {
		return
	}

	submissionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid submission id"})
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "outcome is required"})
		return
	}

	outcome := models.Status(req.Outcome)
	if !outcome.Decided() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "outcome must be approved or rejected"})
		return
	}
	if err := utils.ValidateFeedback(req.Feedback); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	if err := h.dashboard.Coordinator.Submit(c.Request.Context(), submissionID, outcome, req.Feedback); err != nil {
		c.JSON(decisionErrorStatus(err), Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.dashboard.State.Snapshot()})
}

// History handles GET /api/v1/review/history
func (h *Handlers) History(c *gin.Context) {
	if h.blocked(c) {
		return
	}
	if h.history == nil {
		c.JSON(http.StatusOK, Response{Success: true, Data: []interface{}{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to read decision history"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// decisionErrorStatus maps a classified submission error back to an
// HTTP status for the presentation layer.
func decisionErrorStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, remote.ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, remote.ErrInvalidReviewPayload):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
