package timesync

import (
	"github.com/spacemeshos/go-governance/metrics"
)

var layerGauge = metrics.NewGauge(
	"layer",
	"clock",
	"current layer derived from the wall clock",
	[]string{},
).WithLabelValues()
