package review

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/metrics"
	"github.com/evandahm/reviewdesk/internal/models"
	"github.com/evandahm/reviewdesk/internal/remote"
	"github.com/evandahm/reviewdesk/pkg/utils"
)

// Decider submits one decision to the outcome-specific remote endpoint.
type Decider interface {
	Decide(ctx context.Context, planID int64, outcome models.Status, feedback string) error
}

// Invalidator marks a builder's cached output stale.
type Invalidator interface {
	Invalidate()
}

// DecisionRecorder appends a successfully submitted decision to the
// local history log.
type DecisionRecorder interface {
	Record(ctx context.Context, entry *models.DecisionLogEntry) error
}

// CoordinatorConfig holds the transient-notice lifetimes.
type CoordinatorConfig struct {
	SuccessNoticeTTL time.Duration
	ErrorNoticeTTL   time.Duration
}

// Coordinator submits caller decisions and, on success, invalidates
// both set builders through explicit handles so the next completed
// fetch of either set reflects the decision. Strictly single-shot per
// invocation: duplicate submissions for the same id are the caller's
// responsibility to prevent.
type Coordinator struct {
	scope   *identity.ReviewerContext
	decider Decider
	pending Invalidator
	decided Invalidator
	history DecisionRecorder
	state   *StateStore
	cfg     CoordinatorConfig
	logger  *zap.Logger
}

// NewCoordinator creates a decision submission coordinator. history may
// be nil when no local log is configured.
func NewCoordinator(
	scope *identity.ReviewerContext,
	decider Decider,
	pending, decided Invalidator,
	history DecisionRecorder,
	state *StateStore,
	cfg CoordinatorConfig,
	logger *zap.Logger,
) *Coordinator {
	if cfg.SuccessNoticeTTL <= 0 {
		cfg.SuccessNoticeTTL = 3 * time.Second
	}
	if cfg.ErrorNoticeTTL <= 0 {
		cfg.ErrorNoticeTTL = 5 * time.Second
	}
	return &Coordinator{
		scope:   scope,
		decider: decider,
		pending: pending,
		decided: decided,
		history: history,
		state:   state,
		cfg:     cfg,
		logger:  logger,
	}
}

// Submit issues exactly one decision call for the submission and wires
// the aftermath: cache invalidation, history logging, selection close,
// and the transient notice.
func (c *Coordinator) Submit(ctx context.Context, submissionID int64, outcome models.Status, feedback string) error {
	feedback = utils.SanitizeString(feedback)

	if err := c.decider.Decide(ctx, submissionID, outcome, feedback); err != nil {
		c.logger.Warn("Decision submission failed",
			zap.Int64("submission_id", submissionID),
			zap.String("outcome", string(outcome)),
			zap.Error(err))
		metrics.DecisionsSubmitted.WithLabelValues(string(outcome), "error").Inc()
		c.state.SubmitFailed(noticeMessage(err), c.cfg.ErrorNoticeTTL)
		return err
	}

	metrics.DecisionsSubmitted.WithLabelValues(string(outcome), "ok").Inc()

	c.pending.Invalidate()
	c.decided.Invalidate()

	if c.history != nil {
		entry := &models.DecisionLogEntry{
			SubmissionID:     submissionID,
			ReviewerRecordID: c.primaryReviewerID(),
			Outcome:          outcome,
			Feedback:         feedback,
		}
		// History is best-effort bookkeeping; a write failure never
		// fails the submit.
		if err := c.history.Record(ctx, entry); err != nil {
			c.logger.Warn("Failed to record decision history",
				zap.Int64("submission_id", submissionID),
				zap.Error(err))
		}
	}

	c.state.SubmitSucceeded("Review submitted", c.cfg.SuccessNoticeTTL)

	c.logger.Info("Decision submitted",
		zap.Int64("submission_id", submissionID),
		zap.String("outcome", string(outcome)))
	return nil
}

func (c *Coordinator) primaryReviewerID() int64 {
	if len(c.scope.ReviewerRecordIDs) > 0 {
		return c.scope.ReviewerRecordIDs[0]
	}
	return 0
}

// noticeMessage maps a submission error to the text surfaced in the
// transient notice.
func noticeMessage(err error) string {
	switch {
	case errors.Is(err, identity.ErrPermissionDenied):
		return "You are not allowed to review this submission"
	case errors.Is(err, remote.ErrSubmissionNotFound):
		return "Submission no longer exists"
	case errors.Is(err, remote.ErrInvalidReviewPayload):
		return "Review was rejected as invalid"
	default:
		return "Review submission failed: " + err.Error()
	}
}
