package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/metrics"
	"github.com/evandahm/reviewdesk/internal/models"
)

// PendingBuilder builds the set of submissions still awaiting the
// caller's own decision: status submitted and no decision record from
// any of the caller's reviewer record ids.
type PendingBuilder struct {
	*setCache

	scope  *identity.ReviewerContext
	plans  PlanLister
	names  NameResolver
	limit  int
	logger *zap.Logger
}

// NewPendingBuilder creates a pending-set builder scoped to one
// reviewer context.
func NewPendingBuilder(scope *identity.ReviewerContext, plans PlanLister, names NameResolver, limit int, logger *zap.Logger) *PendingBuilder {
	b := &PendingBuilder{
		scope:  scope,
		plans:  plans,
		names:  names,
		limit:  limit,
		logger: logger,
	}
	b.setCache = newSetCache("pending", b.rebuild)
	return b
}

func (b *PendingBuilder) rebuild(ctx context.Context) ([]models.Submission, bool) {
	// Precondition guard, not an error: nothing to fetch for an empty
	// organization or reviewer scope.
	if len(b.scope.OrganizationIDs) == 0 || len(b.scope.ReviewerRecordIDs) == 0 {
		return []models.Submission{}, true
	}

	fetched, err := fetchByStatus(ctx, b.plans, b.scope.OrganizationIDs, models.StatusSubmitted, b.limit)
	if err != nil {
		// Degrade to an empty set; the dashboard stays usable. The
		// degraded result is never cached.
		b.logger.Error("Pending-set fetch failed", zap.Error(err))
		metrics.RemoteFetchFailures.WithLabelValues("pending").Inc()
		return []models.Submission{}, false
	}

	reviewerIDs := b.scope.ReviewerIDSet()

	out := make([]models.Submission, 0, len(fetched))
	for _, sub := range fetched {
		if sub.Status != models.StatusSubmitted {
			continue
		}
		// A submission with no decision records at all is pending by
		// definition.
		if sub.DecisionBy(reviewerIDs) != nil {
			continue
		}
		sub.OrganizationName = b.names.Resolve(ctx, sub.OrganizationID)
		out = append(out, sub)
	}
	return out, true
}
