package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_bots/internal/models"
	"airline_bots/internal/personality"
)

func TestAbandonmentDependsOnPersonalityGate(t *testing.T) {
	tests := []struct {
		kind    personality.Kind
		deleted bool
	}{
		{personality.Conservative, true},
		{personality.Aggressive, false},
		{personality.Budget, false},
		{personality.Balanced, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			w := newTestWorld(t)
			w.addRoute(t, 1, botID, cdg, lhr, 1.0, 55)
			w.addHistory(t, 1, -1000, 0.36, 0.36, 0.36, 0.36)

			out, err := NewAbandoner(w.deps).Act(context.Background(), w.turn(t, tt.kind))
			require.NoError(t, err)

			routes, err := w.store.LoadRoutes(context.Background(), botID)
			require.NoError(t, err)
			if tt.deleted {
				assert.Equal(t, []int{1}, out.Abandoned)
				assert.Empty(t, routes)
			} else {
				assert.Empty(t, out.Abandoned)
				assert.Len(t, routes, 1)
			}
		})
	}
}

func TestAbandonmentNeedsFullWindow(t *testing.T) {
	w := newTestWorld(t)
	w.addRoute(t, 1, botID, cdg, lhr, 1.0, 55)
	w.addHistory(t, 1, -1000, 0.01, 0.01, 0.01)

	out, err := NewAbandoner(w.deps).Act(context.Background(), w.turn(t, personality.Conservative))
	require.NoError(t, err)
	assert.Empty(t, out.Abandoned)
}

func TestAbandonmentUsesOnlyTrailingWindow(t *testing.T) {
	w := newTestWorld(t)
	w.addRoute(t, 1, botID, cdg, lhr, 1.0, 55)
	w.addHistory(t, 1, 500, 0.9, 0.9, 0.9, 0.9)
	for cycle := 90; cycle < 96; cycle++ {
		require.NoError(t, w.store.PutConsumption(context.Background(), models.ConsumptionRecord{RouteID: 1, Cycle: cycle, Profit: -1}))
	}

	out, err := NewAbandoner(w.deps).Act(context.Background(), w.turn(t, personality.Conservative))
	require.NoError(t, err)
	assert.Empty(t, out.Abandoned)
}

func TestAbandonmentOnEmptyRouteProfitable(t *testing.T) {
	w := newTestWorld(t)
	w.addRoute(t, 1, botID, cdg, lhr, 1.0, 55)
	w.addHistory(t, 1, 10, 0.1, 0.1, 0.1, 0.1)

	out, err := NewAbandoner(w.deps).Act(context.Background(), w.turn(t, personality.Aggressive))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, out.Abandoned)
}

func TestShouldAbandon(t *testing.T) {
	p := personality.For(personality.Balanced)
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"short history", Record{Cycles: 3, UnprofitableCount: 3, AvgLoadFactor: 0.01}, false},
		{"unprofitable and empty", Record{Cycles: 4, UnprofitableCount: 4, AvgLoadFactor: 0.25}, true},
		{"unprofitable but full enough", Record{Cycles: 4, UnprofitableCount: 4, AvgLoadFactor: 0.31}, false},
		{"profitable but empty", Record{Cycles: 4, UnprofitableCount: 0, AvgLoadFactor: 0.2}, true},
		{"mixed", Record{Cycles: 4, UnprofitableCount: 3, AvgLoadFactor: 0.3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldAbandon(p, tt.rec, 4, 0.30))
		})
	}
}
