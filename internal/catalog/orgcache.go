// Package catalog resolves organization ids to display names via a
// lazily-populated, process-lifetime cache.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Organization is one catalog entry.
type Organization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Fetcher performs the bulk catalog fetch.
type Fetcher interface {
	All(ctx context.Context) ([]Organization, error)
}

// NameCache maps organization ids to display names. The full mapping is
// built from one bulk fetch on first use and never invalidated for the
// life of the process. A failed bulk fetch leaves the cache empty and
// every lookup falls back to a synthesized placeholder; the failure is
// logged and swallowed so dashboard initialization never aborts on it.
//
// The catalog fetch is unpaginated; ids beyond the first page resolve
// to placeholder names. Known limitation.
type NameCache struct {
	fetcher Fetcher
	logger  *zap.Logger

	once  sync.Once
	names map[int64]string
}

// NewNameCache creates an unpopulated name cache.
func NewNameCache(fetcher Fetcher, logger *zap.Logger) *NameCache {
	return &NameCache{
		fetcher: fetcher,
		logger:  logger,
		names:   map[int64]string{},
	}
}

// Resolve returns the display name for an organization id, triggering
// the bulk fetch on first use. Unknown ids resolve to "Organization {id}".
// Safe for concurrent use: the mapping is written exactly once, inside
// the sync.Once, and read-only afterwards.
func (c *NameCache) Resolve(ctx context.Context, orgID int64) string {
	c.once.Do(func() { c.populate(ctx) })

	if name, ok := c.names[orgID]; ok {
		return name
	}
	return fmt.Sprintf("Organization %d", orgID)
}

func (c *NameCache) populate(ctx context.Context) {
	orgs, err := c.fetcher.All(ctx)
	if err != nil {
		c.logger.Warn("Organization catalog fetch failed, using placeholder names",
			zap.Error(err))
		return
	}

	names := make(map[int64]string, len(orgs))
	for _, org := range orgs {
		names[org.ID] = org.Name
	}
	c.names = names

	c.logger.Info("Organization catalog loaded", zap.Int("count", len(names)))
}
