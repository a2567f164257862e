package review

import (
	"sync"

	"github.com/evandahm/reviewdesk/internal/models"
)

// Stats are the aggregate review counts derived from the two set
// builders' outputs.
type Stats struct {
	Pending  int `json:"pending"`
	Reviewed int `json:"reviewed"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// StatsAggregator derives counts from the builders' outputs without any
// I/O. Counts accumulate distinct submission ids rather than taking raw
// lengths, guarding against residual duplication. Results are memoized
// on input slice identity so unrelated state changes never trigger a
// recount.
type StatsAggregator struct {
	mu          sync.Mutex
	lastPending []models.Submission
	lastDecided []models.Submission
	cached      Stats
	valid       bool
}

// NewStatsAggregator creates an empty aggregator.
func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{}
}

// Compute returns the aggregate counts for the given pending and
// decided sets, reusing the memoized result when both inputs are the
// same slices as last time.
func (a *StatsAggregator) Compute(pending, decided []models.Submission) Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.valid && sameSlice(a.lastPending, pending) && sameSlice(a.lastDecided, decided) {
		return a.cached
	}

	stats := computeStats(pending, decided)
	a.lastPending = pending
	a.lastDecided = decided
	a.cached = stats
	a.valid = true
	return stats
}

func computeStats(pending, decided []models.Submission) Stats {
	pendingIDs := make(map[int64]struct{}, len(pending))
	for _, sub := range pending {
		if sub.Status == models.StatusSubmitted {
			pendingIDs[sub.ID] = struct{}{}
		}
	}

	reviewedIDs := make(map[int64]struct{}, len(decided))
	approvedIDs := make(map[int64]struct{})
	rejectedIDs := make(map[int64]struct{})
	for _, sub := range decided {
		switch sub.Status {
		case models.StatusApproved:
			approvedIDs[sub.ID] = struct{}{}
		case models.StatusRejected:
			rejectedIDs[sub.ID] = struct{}{}
		default:
			continue
		}
		reviewedIDs[sub.ID] = struct{}{}
	}

	return Stats{
		Pending:  len(pendingIDs),
		Reviewed: len(reviewedIDs),
		Approved: len(approvedIDs),
		Rejected: len(rejectedIDs),
	}
}

// sameSlice reports whether two slices are the same slice value, not
// merely equal contents.
func sameSlice(a, b []models.Submission) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
