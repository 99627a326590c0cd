package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/governance"
	"github.com/spacemeshos/go-governance/ledger"
	"github.com/spacemeshos/go-governance/log"
)

var genesis = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const testConfig = `
genesis-time = "2024-01-01T00:00:00Z"
layer-duration = "10s"

[logging]
level = "error"

[initial-settings]
voting-mode = "early-execution"
support-threshold = 500000
min-participation = 200000
min-duration = "1h"
`

type testCli struct {
	tb     testing.TB
	dir    string
	config string
	clock  clockwork.FakeClock
}

func newTestCli(tb testing.TB) *testCli {
	dir := tb.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(tb, os.WriteFile(path, []byte(testConfig), 0o600))
	return &testCli{
		tb:     tb,
		dir:    filepath.Join(dir, "data"),
		config: path,
		clock:  clockwork.NewFakeClockAt(genesis.Add(time.Hour)),
	}
}

func (c *testCli) run(args ...string) (string, error) {
	a := newApp()
	a.wallclock = c.clock
	var out bytes.Buffer
	a.out = &out
	args = append([]string{"--config", c.config, "--data-dir", c.dir}, args...)
	err := run(context.Background(), a, args)
	return out.String(), err
}

func (c *testCli) mustRun(args ...string) string {
	c.tb.Helper()
	out, err := c.run(args...)
	require.NoError(c.tb, err, "govctl %v", args)
	return out
}

func member(i int) string {
	return types.Address{byte(i + 1)}.String()
}

func TestSettings(t *testing.T) {
	cli := newTestCli(t)
	out := cli.mustRun("settings", "show")
	require.Contains(t, out, "layer 360: mode=early-execution support=50% participation=20% duration=1h0m0s")

	out = cli.mustRun("settings", "update", "--mode", "vote-replacement", "--support-threshold", "666667")
	require.Contains(t, out, "mode=vote-replacement support=66.6667%")

	_, err := cli.run("settings", "update", "--support-threshold", "1000000")
	require.ErrorIs(t, err, governance.ErrRatioOutOfBounds)

	out = cli.mustRun("settings", "show")
	require.Contains(t, out, "layer 360: mode=early-execution")
	require.Contains(t, out, "layer 360: mode=vote-replacement")
}

func TestProposalLifecycle(t *testing.T) {
	cli := newTestCli(t)
	for i := range 10 {
		cli.mustRun("power", "set", member(i), "10")
	}
	_, err := cli.run("power", "set", member(0), "10", "--layer", "359")
	require.ErrorIs(t, err, ledger.ErrHistoryImmutable)
	out := cli.mustRun("power", "show")
	require.Contains(t, out, "total at layer 360: 100")
	out = cli.mustRun("power", "show", member(0), "--layer", "359")
	require.Contains(t, out, ": 0")

	// power set in layer 360 is the snapshot of proposals created in layer 361
	cli.clock.Advance(10 * time.Second)

	out = cli.mustRun("--as", member(0), "proposal", "create",
		"--metadata", "ipfs://upgrade",
		"--action", fmt.Sprintf("%s:5:0x0102", member(9)),
		"--vote", "yes",
	)
	require.Contains(t, out, "proposal 0 created")

	for i := 1; i < 5; i++ {
		cli.mustRun("--as", member(i), "vote", "0", "yes")
	}
	_, err = cli.run("execute", "0")
	require.ErrorIs(t, err, governance.ErrApprovalNotReached)

	_, err = cli.run("--as", member(1), "vote", "0", "no")
	require.ErrorIs(t, err, governance.ErrAlreadyVoted)

	out = cli.mustRun("--as", member(5), "vote", "0", "yes", "--try-early-execution")
	require.Contains(t, out, "proposal is executed")

	out = cli.mustRun("proposal", "list")
	require.Contains(t, out, "0 executed")

	export := filepath.Join(t.TempDir(), "proposal.json")
	cli.mustRun("proposal", "export", "0", export)
	data, err := os.ReadFile(export)
	require.NoError(t, err)
	var exported exportedProposal
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Equal(t, "executed", exported.State)
	require.Equal(t, "60", exported.Yes)
	require.Equal(t, "20", exported.MinVotingPower)
	require.Equal(t, types.LayerID(360), exported.SnapshotLayer)
	require.Len(t, exported.Ballots, 6)
	require.Equal(t, []exportedAction{{To: types.Address{10}, Value: "5", Data: "0x0102"}}, exported.Actions)
	require.NotNil(t, exported.Execution)
	require.Equal(t, types.LayerID(361), exported.Execution.Layer)

	_, err = cli.run("execute", "0")
	require.ErrorIs(t, err, governance.ErrAlreadyExecuted)
}

func TestProposalRequiresAccount(t *testing.T) {
	cli := newTestCli(t)
	_, err := cli.run("proposal", "create")
	require.ErrorContains(t, err, "--as")
}

func TestLockedDataDir(t *testing.T) {
	cli := newTestCli(t)
	cli.mustRun("settings", "show")

	a := newApp()
	a.wallclock = cli.clock
	a.out = &bytes.Buffer{}
	root := newRootCmd(a)
	root.SetArgs([]string{"--config", cli.config, "--data-dir", cli.dir, "settings", "show"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	t.Cleanup(func() { require.NoError(t, a.close()) })

	_, err := cli.run("settings", "show")
	var fatal *log.FatalError
	require.ErrorAs(t, err, &fatal)
	require.Equal(t, "ERR_LOCK_DATA_DIR", fatal.Code)
}

func TestFlagsOverrideConfig(t *testing.T) {
	cli := newTestCli(t)
	_, err := cli.run("--log-level", "nope", "settings", "show")
	var fatal *log.FatalError
	require.ErrorAs(t, err, &fatal)
	require.Equal(t, "ERR_MALFORMED_CONFIG", fatal.Code)
}

func TestParseAction(t *testing.T) {
	action, err := parseAction(member(1) + ":42")
	require.NoError(t, err)
	require.Equal(t, types.Address{2}, action.To)
	require.Equal(t, uint64(42), action.Value.Uint64())
	require.Empty(t, action.Data)

	for _, invalid := range []string{"", member(1), member(1) + ":x", "0x01:1", member(1) + ":1:zz", "a:b:c:d"} {
		_, err := parseAction(invalid)
		require.Error(t, err, invalid)
	}
}
