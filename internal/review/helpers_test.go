package review

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/models"
)

// mockPlans is a func-field mock of the plan store surface.
type mockPlans struct {
	mu          sync.Mutex
	listCalls   atomic.Int32
	decideCalls atomic.Int32

	listFunc   func(ctx context.Context, status models.Status, orgID int64, limit int) ([]models.Submission, error)
	decideFunc func(ctx context.Context, planID int64, outcome models.Status, feedback string) error

	// byStatus backs the default listFunc: status -> orgID -> submissions.
	byStatus map[models.Status]map[int64][]models.Submission
}

func (m *mockPlans) ListPlans(ctx context.Context, status models.Status, orgID int64, limit int) ([]models.Submission, error) {
	m.listCalls.Add(1)
	if m.listFunc != nil {
		return m.listFunc(ctx, status, orgID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byStatus[status][orgID], nil
}

func (m *mockPlans) Decide(ctx context.Context, planID int64, outcome models.Status, feedback string) error {
	m.decideCalls.Add(1)
	if m.decideFunc != nil {
		return m.decideFunc(ctx, planID, outcome, feedback)
	}
	return nil
}

// setPlans replaces the submissions for one status/org bucket.
func (m *mockPlans) setPlans(status models.Status, orgID int64, subs []models.Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byStatus == nil {
		m.byStatus = map[models.Status]map[int64][]models.Submission{}
	}
	if m.byStatus[status] == nil {
		m.byStatus[status] = map[int64][]models.Submission{}
	}
	m.byStatus[status][orgID] = subs
}

// stubNames resolves every organization to a deterministic name.
type stubNames struct{}

func (stubNames) Resolve(_ context.Context, orgID int64) string {
	return fmt.Sprintf("Org %d", orgID)
}

func testScope(orgIDs, reviewerIDs []int64) *identity.ReviewerContext {
	return &identity.ReviewerContext{
		OrganizationIDs:   orgIDs,
		ReviewerRecordIDs: reviewerIDs,
	}
}

func submitted(id, orgID int64, decisions ...models.DecisionRecord) models.Submission {
	return models.Submission{
		ID:             id,
		OrganizationID: orgID,
		Status:         models.StatusSubmitted,
		Decisions:      decisions,
	}
}

func decided(id, orgID int64, status models.Status, decisions ...models.DecisionRecord) models.Submission {
	return models.Submission{
		ID:             id,
		OrganizationID: orgID,
		Status:         status,
		Decisions:      decisions,
	}
}
