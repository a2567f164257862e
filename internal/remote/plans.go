package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/evandahm/reviewdesk/internal/models"
)

// ListPlans fetches submissions from the plan store filtered by status
// and organization, capped at limit records. No follow-up pagination:
// organizations with more matching submissions than the cap are
// truncated at the store. Known limitation.
func (c *Client) ListPlans(ctx context.Context, status models.Status, orgID int64, limit int) ([]models.Submission, error) {
	query := url.Values{}
	query.Set("status", string(status))
	query.Set("organization", fmt.Sprintf("%d", orgID))
	query.Set("limit", fmt.Sprintf("%d", limit))

	body, err := c.get(ctx, fmt.Sprintf("%s/plans/?%s", c.cfg.PlanStoreURL, query.Encode()))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	subs, err := models.ParseSubmissionList(body)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return subs, nil
}

// Decide submits the caller's decision for one plan to the
// outcome-specific endpoint. Each call is cache-busted with a fresh
// timestamp so no intermediate layer can serve a stale verdict.
// Single-shot: never retried.
func (c *Client) Decide(ctx context.Context, planID int64, outcome models.Status, feedback string) error {
	var action string
	switch outcome {
	case models.StatusApproved:
		action = "approve"
	case models.StatusRejected:
		action = "reject"
	default:
		return fmt.Errorf("%w: outcome %q", ErrInvalidReviewPayload, outcome)
	}

	endpoint := fmt.Sprintf("%s/plans/%d/%s/?_=%d",
		c.cfg.PlanStoreURL, planID, action, c.now().UnixMilli())

	payload := map[string]string{
		"status":   string(outcome),
		"feedback": feedback,
	}

	code, body, err := c.postJSON(ctx, endpoint, payload)
	if err != nil {
		return fmt.Errorf("submit decision: %w", err)
	}
	if err := classifyDecision(code, body); err != nil {
		return fmt.Errorf("submit decision: %w", err)
	}
	return nil
}
