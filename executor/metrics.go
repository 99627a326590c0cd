package executor

import "github.com/spacemeshos/go-governance/metrics"

const (
	resultOk      = "ok"
	resultAllowed = "allowed_failure"
	resultAborted = "aborted"
)

var actionsCount = metrics.NewCounter(
	"actions",
	"executor",
	"number of processed actions by result",
	[]string{"result"},
)
