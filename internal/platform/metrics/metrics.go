// Package metrics exposes Prometheus instrumentation for the job tracking core.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HandoffsTotal counts completed department handoffs.
	HandoffsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jta_job_handoffs_total",
		Help: "Number of jobs handed off between departments.",
	})

	// LaneMovesTotal counts applied board lane moves, labeled by target lane.
	LaneMovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jta_lane_moves_total",
		Help: "Number of Kanban lane moves applied, by target lane.",
	}, []string{"lane"})

	// VersionConflictsTotal counts optimistic concurrency failures on job writes.
	VersionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jta_job_version_conflicts_total",
		Help: "Number of job updates rejected due to a stale version.",
	})

	// ActiveSubscribers tracks open board stream subscriptions.
	ActiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jta_board_subscribers",
		Help: "Number of currently connected board stream subscribers.",
	})
)

// Handler returns the Prometheus scrape endpoint wrapped for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
