package ledger

import "github.com/spacemeshos/go-governance/metrics"

var checkpoints = metrics.NewCounter(
	"checkpoints",
	"ledger",
	"number of voting power checkpoints written",
	[]string{},
).WithLabelValues()
