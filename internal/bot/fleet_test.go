package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_bots/internal/models"
	"airline_bots/internal/personality"
)

func TestFleetAdvisorRequestsAircraft(t *testing.T) {
	w := newTestWorld(t)
	w.addAircraft(t, 100, a320, true)

	out, err := NewFleetAdvisor(w.deps).Act(context.Background(), w.turn(t, personality.Balanced))
	require.NoError(t, err)

	require.Len(t, out.Advice, 1)
	got := out.Advice[0]
	assert.Equal(t, botID, got.AirlineID)
	assert.Equal(t, 1, got.Cycle)
	assert.Equal(t, models.AircraftMedium, got.Category)
	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 1.5e8, got.Budget, 1)
	assert.Equal(t, out.Advice, w.store.FleetAdvice())
}

func TestFleetAdvisorCountsOnlyUnassignedReadyAircraft(t *testing.T) {
	w := newTestWorld(t)
	w.addAircraft(t, 100, a320, true)
	w.addAircraft(t, 101, a320, false)
	r := w.addRoute(t, 1, botID, cdg, lhr, 1.0, 55)
	r.Assignments = map[int]int{100: 10}
	require.NoError(t, w.store.PutRoute(context.Background(), r))

	out, err := NewFleetAdvisor(w.deps).Act(context.Background(), w.turn(t, personality.Balanced))
	require.NoError(t, err)
	require.Len(t, out.Advice, 1)
	assert.Equal(t, 3, out.Advice[0].Count)
}

func TestFleetAdvisorSkipsWithIdleAircraft(t *testing.T) {
	w := newTestWorld(t)
	w.addAircraft(t, 100, a320, true)
	w.addAircraft(t, 101, e190, true)

	out, err := NewFleetAdvisor(w.deps).Act(context.Background(), w.turn(t, personality.Balanced))
	require.ErrorIs(t, err, ErrFleetIdle)
	assert.True(t, IsSkip(err))
	assert.Empty(t, out.Advice)
	assert.Empty(t, w.store.FleetAdvice())
}

func TestFleetAdvisorNeedsBudget(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.store.PutAirline(context.Background(), models.Airline{ID: botID, Balance: 1e7, Bot: true}))

	_, err := NewFleetAdvisor(w.deps).Act(context.Background(), w.turn(t, personality.Conservative))
	require.ErrorIs(t, err, ErrInsufficientCash)
}
