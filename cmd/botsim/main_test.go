package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_bots/internal/game"
)

const worldFixture = "../../internal/world/testdata/world.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BOTSIM_STORE_DRIVER", "memory")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunPrintsCycleSummary(t *testing.T) {
	out, err := execute(t, "run", "--world", worldFixture, "--cycles", "3", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "CYCLE")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "seed: 7")
}

func TestRunContinuesFromStartCycle(t *testing.T) {
	out, err := execute(t, "run", "--world", worldFixture, "--cycles", "2", "--seed", "7", "--start-cycle", "41")
	require.NoError(t, err)
	assert.Regexp(t, `│\s+42\s+│`, out)
	assert.Regexp(t, `│\s+43\s+│`, out)

	_, err = execute(t, "run", "--world", worldFixture, "--start-cycle", "-1")
	assert.ErrorContains(t, err, "--start-cycle")
}

func TestRunRejectsZeroCycles(t *testing.T) {
	_, err := execute(t, "run", "--world", worldFixture, "--cycles", "0")
	assert.ErrorContains(t, err, "--cycles")
}

func TestRunMissingFixture(t *testing.T) {
	_, err := execute(t, "run", "--world", "testdata/does-not-exist.yaml")
	assert.ErrorContains(t, err, "load world")
}

func TestBotsListsPersonalities(t *testing.T) {
	out, err := execute(t, "bots", "--world", worldFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Azur Bot")
	assert.Contains(t, out, "BALANCED")
	assert.Contains(t, out, "$500,000,000")
	assert.NotContains(t, out, "Human Air")
	assert.Contains(t, out, "1 BOTS")
}

func TestBotsFiltersByPersonality(t *testing.T) {
	out, err := execute(t, "bots", "--world", worldFixture, "--personality", "balanced")
	require.NoError(t, err)
	assert.Contains(t, out, "Azur Bot")
	assert.Contains(t, out, "1 BOTS")

	out, err = execute(t, "bots", "--world", worldFixture, "--personality", "BUDGET")
	require.NoError(t, err)
	assert.NotContains(t, out, "Azur Bot")
	assert.Contains(t, out, "0 BOTS")

	_, err = execute(t, "bots", "--world", worldFixture, "--personality", "reckless")
	assert.ErrorContains(t, err, `unknown personality "reckless"`)
}

func TestMigrateNeedsSQLDriver(t *testing.T) {
	_, err := execute(t, "migrate")
	assert.ErrorContains(t, err, "sql store driver")
}

func TestBadLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bots", "--log-level", "loud"})
	assert.Error(t, cmd.Execute())
}

func TestListenAddr(t *testing.T) {
	t.Setenv("PORT", "")
	assert.Equal(t, ":4000", listenAddr(":4000"))

	t.Setenv("PORT", "8080")
	assert.Equal(t, ":8080", listenAddr(":4000"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,234,567", money(1_234_567.89))
	assert.Equal(t, "-$5,000", money(-5000))
	assert.Equal(t, "$0", money(0))
}

func TestCycleRow(t *testing.T) {
	rep := game.CycleReport{
		RunID:    "0123456789abcdef",
		Cycle:    4,
		Duration: 1500 * time.Microsecond,
		Bots: []game.BotResult{
			{Actions: []game.ActionResult{{Status: game.StatusPerformed}, {Status: game.StatusNoop}}},
			{Err: "boom", Actions: []game.ActionResult{{Status: game.StatusFailed}}},
		},
	}
	row := cycleRow(rep)
	assert.Equal(t, 4, row[0])
	assert.Equal(t, "01234567", row[1])
	assert.Equal(t, 2, row[2])
	assert.Equal(t, 1, row[3])
	assert.Equal(t, 1, row[5])
}
