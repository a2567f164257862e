// Package review implements the reconciliation core of the evaluator
// dashboard: the pending and decided set builders, the statistics
// aggregator, the decision submission coordinator, and the view state.
package review

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/evandahm/reviewdesk/internal/metrics"
	"github.com/evandahm/reviewdesk/internal/models"
)

// PlanLister fetches submissions from the plan store by status and
// organization.
type PlanLister interface {
	ListPlans(ctx context.Context, status models.Status, orgID int64, limit int) ([]models.Submission, error)
}

// NameResolver resolves an organization id to its display name.
type NameResolver interface {
	Resolve(ctx context.Context, orgID int64) string
}

// setCache is the shared caching machinery of both set builders. It
// keeps the last built result, serves it until invalidated, and holds
// at most one rebuild in flight with concurrent callers waiting on it.
//
// The generation counter implements stale-result suppression: a rebuild
// started before the latest Invalidate is discarded when it arrives, so
// a slow stale fetch can never clobber fresher state.
//
// build reports whether its result is authoritative. A degraded result
// (fetch failure, cancelled caller context) is served to the caller
// that triggered it but never cached, so one failed or abandoned
// request cannot blank the set for everyone else.
type setCache struct {
	mu       sync.Mutex
	cond     *sync.Cond
	fresh    bool
	inflight bool
	gen      uint64
	cached   []models.Submission

	name  string
	build func(ctx context.Context) ([]models.Submission, bool)
}

func newSetCache(name string, build func(ctx context.Context) ([]models.Submission, bool)) *setCache {
	c := &setCache{name: name, build: build}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Get returns the current set, rebuilding first when the cache is stale.
func (c *setCache) Get(ctx context.Context) []models.Submission {
	for {
		c.mu.Lock()
		for {
			if c.fresh {
				out := c.cached
				c.mu.Unlock()
				return out
			}
			if !c.inflight {
				break
			}
			c.cond.Wait()
		}
		gen := c.gen
		c.inflight = true
		c.mu.Unlock()

		result, ok := c.build(ctx)

		c.mu.Lock()
		c.inflight = false
		superseded := gen != c.gen
		switch {
		case superseded:
			// Superseded by an invalidation while in flight.
			metrics.SetRebuilds.WithLabelValues(c.name, "discarded").Inc()
		case ok:
			c.cached = result
			c.fresh = true
			metrics.SetRebuilds.WithLabelValues(c.name, "applied").Inc()
		default:
			metrics.SetRebuilds.WithLabelValues(c.name, "degraded").Inc()
		}
		c.cond.Broadcast()
		c.mu.Unlock()

		if !superseded || ctx.Err() != nil {
			return result
		}
	}
}

// Invalidate marks the cached set stale, forcing the next Get to
// rebuild and any in-flight rebuild to be discarded.
func (c *setCache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.fresh = false
	c.mu.Unlock()
}

// fetchByStatus fans one fetch per organization out through an errgroup
// and joins them all before returning, preserving the organization
// input order in the concatenated result. Any single failure fails the
// whole fetch.
func fetchByStatus(ctx context.Context, plans PlanLister, orgIDs []int64, status models.Status, limit int) ([]models.Submission, error) {
	slots := make([][]models.Submission, len(orgIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, orgID := range orgIDs {
		i, orgID := i, orgID
		g.Go(func() error {
			subs, err := plans.ListPlans(gctx, status, orgID, limit)
			if err != nil {
				return err
			}
			slots[i] = subs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.Submission
	for _, subs := range slots {
		out = append(out, subs...)
	}
	return out, nil
}
