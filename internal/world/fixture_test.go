package world

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_bots/internal/models"
)

func TestLoadFixtureSeedsStore(t *testing.T) {
	f, err := LoadFixture("testdata/world.yaml")
	require.NoError(t, err)
	require.Len(t, f.Airports, 3)
	require.Len(t, f.Airlines, 2)

	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, f.Seed(ctx, s))

	bots, err := s.LoadBotAirlines(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, "Azur Bot", bots[0].Name)

	fleet, err := s.LoadAircraft(ctx, 10)
	require.NoError(t, err)
	require.Len(t, fleet, 1)
	assert.Equal(t, 180, fleet[0].Model.Capacity, "model resolved from model_id")

	routes, err := s.LoadRoutesByAirportPair(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	want := models.Route{
		ID: 7, AirlineID: 20, FromAirportID: 2, ToAirportID: 1, Distance: 348,
		Price:          models.ClassPrices{Economy: 110, Business: 320, First: 900},
		Capacity:       models.SeatCounts{Economy: 150, Business: 24, First: 6},
		Frequency:      14,
		RawQuality:     60,
		FlightCategory: models.RegionalFlight,
	}
	if diff := cmp.Diff(want, routes[0]); diff != "" {
		t.Errorf("route mismatch (-want +got):\n%s", diff)
	}

	hist, err := s.LoadConsumption(ctx, 7, 5)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 2, hist[0].Cycle, "most recent first")

	rel, err := s.LoadCountryRelationships(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rel[models.NewCountryPair("GB", "FR")])

	created, err := s.CreateRoute(ctx, models.Route{AirlineID: 10, FromAirportID: 1, ToAirportID: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, created.ID, "ids continue after seeded routes")
}

func TestParseFixtureRejectsDanglingReferences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		msg  string
	}{
		{"duplicate airport", "airports: [{id: 1}, {id: 1}]", "duplicate airport id 1"},
		{"base without airline", "airports: [{id: 1}]\nbases: [{airline_id: 5, airport_id: 1}]", "base 5@1"},
		{"route to nowhere", "airports: [{id: 1}]\nairlines: [{id: 5}]\nroutes: [{id: 3, airline_id: 5, from_airport_id: 1, to_airport_id: 2}]", "route 3 references unknown airport"},
		{"route without airline", "airports: [{id: 1}, {id: 2}]\nroutes: [{id: 3, airline_id: 5, from_airport_id: 1, to_airport_id: 2}]", "unknown airline 5"},
		{"bad yaml", "airports: {", "world fixture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSeedFailsOnUnknownAircraftModel(t *testing.T) {
	f, err := ParseFixture([]byte("airlines: [{id: 1}]\naircraft: [{id: 4, owner_id: 1, model_id: 99}]"))
	require.NoError(t, err)
	err = f.Seed(context.Background(), NewMemStore())
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "seed aircraft 4")
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, err := LoadFixture("testdata/nope.yaml")
	require.Error(t, err)
}
