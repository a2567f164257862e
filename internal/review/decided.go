package review

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/metrics"
	"github.com/evandahm/reviewdesk/internal/models"
)

// DecidedBuilder builds the set of submissions the caller has already
// decided. Approved and rejected submissions are fetched in parallel,
// deduplicated by submission id (first seen wins), and each survivor is
// attributed to the caller's own first matching decision record, never
// an arbitrary one.
type DecidedBuilder struct {
	*setCache

	scope  *identity.ReviewerContext
	plans  PlanLister
	names  NameResolver
	limit  int
	logger *zap.Logger
}

// NewDecidedBuilder creates a decided-set builder scoped to one
// reviewer context.
func NewDecidedBuilder(scope *identity.ReviewerContext, plans PlanLister, names NameResolver, limit int, logger *zap.Logger) *DecidedBuilder {
	b := &DecidedBuilder{
		scope:  scope,
		plans:  plans,
		names:  names,
		limit:  limit,
		logger: logger,
	}
	b.setCache = newSetCache("decided", b.rebuild)
	return b
}

func (b *DecidedBuilder) rebuild(ctx context.Context) ([]models.Submission, bool) {
	if len(b.scope.OrganizationIDs) == 0 || len(b.scope.ReviewerRecordIDs) == 0 {
		return []models.Submission{}, true
	}

	// Fan out both status fetches and join before producing anything.
	var approved, rejected []models.Submission
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		approved, err = fetchByStatus(gctx, b.plans, b.scope.OrganizationIDs, models.StatusApproved, b.limit)
		return err
	})
	g.Go(func() error {
		var err error
		rejected, err = fetchByStatus(gctx, b.plans, b.scope.OrganizationIDs, models.StatusRejected, b.limit)
		return err
	})
	if err := g.Wait(); err != nil {
		b.logger.Error("Decided-set fetch failed", zap.Error(err))
		metrics.RemoteFetchFailures.WithLabelValues("decided").Inc()
		return []models.Submission{}, false
	}

	working := make([]models.Submission, 0, len(approved)+len(rejected))
	working = append(working, approved...)
	working = append(working, rejected...)

	reviewerIDs := b.scope.ReviewerIDSet()
	seen := make(map[int64]struct{}, len(working))

	out := make([]models.Submission, 0, len(working))
	for _, sub := range working {
		if !sub.Status.Decided() {
			continue
		}
		record := sub.DecisionBy(reviewerIDs)
		if record == nil {
			// Decided, but not by this caller.
			continue
		}
		if _, dup := seen[sub.ID]; dup {
			continue
		}
		seen[sub.ID] = struct{}{}

		own := *record
		sub.OwnDecision = &own
		sub.OrganizationName = b.names.Resolve(ctx, sub.OrganizationID)
		out = append(out, sub)
	}
	return out, true
}
