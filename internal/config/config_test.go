package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTuningIsValid(t *testing.T) {
	require.NoError(t, DefaultTuning().Validate())
	require.NoError(t, Default().Validate())
}

func TestTuningValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"probability above one", func(t *Tuning) { t.RouteOptimizationProbability = 1.2 }},
		{"negative probability", func(t *Tuning) { t.AbandonmentProbability = -0.1 }},
		{"inverted price bounds", func(t *Tuning) { t.MinPriceMultiplier = 2.0 }},
		{"zero step", func(t *Tuning) { t.PriceAdjustmentStep = 0 }},
		{"zero route cap", func(t *Tuning) { t.MaxRoutesPerCycle = 0 }},
		{"zero abandonment window", func(t *Tuning) { t.UnprofitableCyclesThreshold = 0 }},
		{"expansion ratio above one", func(t *Tuning) { t.ExpansionCashRatio = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tt.mutate(&tuning)
			assert.Error(t, tuning.Validate())
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botsim.yaml")
	body := []byte(`
tuning:
  max_routes_per_cycle: 4
  route_planning_probability: 0.5
store:
  driver: sqlite
  dsn: ` + filepath.Join(dir, "world.db") + `
server:
  cycle_interval: 5s
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))
	t.Setenv("BOTSIM_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Tuning.MaxRoutesPerCycle)
	assert.InDelta(t, 0.5, cfg.Tuning.RoutePlanningProbability, 1e-9)
	assert.InDelta(t, 0.35, cfg.Tuning.RouteOptimizationProbability, 1e-9, "unset keys keep defaults")
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Server.CycleInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("BOTSIM_STORE_DRIVER", "mysql")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}
