// Package metrics exposes prometheus instrumentation for the dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RemoteFetchFailures counts set-building fetches that failed after
	// the transport retry budget and degraded to an empty result.
	RemoteFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewdesk_remote_fetch_failures_total",
		Help: "Remote plan fetches that failed and degraded to an empty set.",
	}, []string{"set"})

	// SetRebuilds counts completed builder rebuilds, including discarded
	// stale ones.
	SetRebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewdesk_set_rebuilds_total",
		Help: "Completed review-set rebuilds by result.",
	}, []string{"set", "result"})

	// DecisionsSubmitted counts decision submissions by outcome and
	// verdict of the remote call.
	DecisionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewdesk_decisions_submitted_total",
		Help: "Decision submissions by outcome and result.",
	}, []string{"outcome", "result"})
)

// Handler returns the HTTP handler serving the default prometheus
// registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
