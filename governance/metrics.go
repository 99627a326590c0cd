package governance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-governance/metrics"
)

const subsystem = "engine"

var (
	proposalsCreated = metrics.NewCounter(
		"proposals_created",
		subsystem,
		"number of created proposals",
		[]string{},
	).WithLabelValues()
	votesCast = metrics.NewCounter(
		"votes",
		subsystem,
		"number of accepted votes by option",
		[]string{"option"},
	)
	executionsCount = metrics.NewCounter(
		"executions",
		subsystem,
		"number of executed proposals",
		[]string{},
	).WithLabelValues()
	rejections = metrics.NewCounter(
		"rejections",
		subsystem,
		"number of rejected operations",
		[]string{"operation"},
	)
	settingsUpdates = metrics.NewCounter(
		"settings_updates",
		subsystem,
		"number of accepted settings updates",
		[]string{},
	).WithLabelValues()
	operationDuration = metrics.NewHistogramWithBuckets(
		"operation_duration",
		subsystem,
		"duration of engine operations in seconds",
		[]string{"operation"},
		prometheus.ExponentialBuckets(0.0001, 2, 16),
	)
)

const (
	opSettings = "settings"
	opCreate   = "create"
	opVote     = "vote"
	opExecute  = "execute"
)

func observe(operation string, start time.Time, err error) {
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		rejections.WithLabelValues(operation).Inc()
	}
}
