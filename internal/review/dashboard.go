package review

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/models"
)

// PlanService is the full plan-store surface the dashboard needs.
type PlanService interface {
	PlanLister
	Decider
}

// Config holds the dashboard tunables.
type Config struct {
	PageLimit        int
	SuccessNoticeTTL time.Duration
	ErrorNoticeTTL   time.Duration
}

// Dashboard bundles the reconciliation core for one reviewer session:
// both set builders, the statistics aggregator, the submission
// coordinator, and the view state.
type Dashboard struct {
	Scope       *identity.ReviewerContext
	Pending     *PendingBuilder
	Decided     *DecidedBuilder
	Coordinator *Coordinator
	State       *StateStore

	stats *StatsAggregator
}

// NewDashboard wires a dashboard for the given reviewer scope. history
// may be nil.
func NewDashboard(
	scope *identity.ReviewerContext,
	plans PlanService,
	names NameResolver,
	history DecisionRecorder,
	cfg Config,
	logger *zap.Logger,
) *Dashboard {
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 50
	}

	pending := NewPendingBuilder(scope, plans, names, cfg.PageLimit, logger)
	decided := NewDecidedBuilder(scope, plans, names, cfg.PageLimit, logger)
	state := NewStateStore()

	coordinator := NewCoordinator(scope, plans, pending, decided, history, state, CoordinatorConfig{
		SuccessNoticeTTL: cfg.SuccessNoticeTTL,
		ErrorNoticeTTL:   cfg.ErrorNoticeTTL,
	}, logger)

	return &Dashboard{
		Scope:       scope,
		Pending:     pending,
		Decided:     decided,
		Coordinator: coordinator,
		State:       state,
		stats:       NewStatsAggregator(),
	}
}

// Statistics fetches both current sets, concurrently, and derives the
// aggregate counts from them.
func (d *Dashboard) Statistics(ctx context.Context) Stats {
	pending, decided := d.Sets(ctx)
	return d.stats.Compute(pending, decided)
}

// Sets returns the current pending and decided sets. The two builders
// run independently of each other.
func (d *Dashboard) Sets(ctx context.Context) (pending, decided []models.Submission) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pending = d.Pending.Get(ctx)
	}()
	go func() {
		defer wg.Done()
		decided = d.Decided.Get(ctx)
	}()
	wg.Wait()
	return pending, decided
}
