package bot

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"airline_bots/internal/config"
	"airline_bots/internal/models"
	"airline_bots/internal/personality"
	"airline_bots/internal/pricing"
	"airline_bots/internal/world"
)

const (
	cdg = 1
	lhr = 2
	fra = 3
	mad = 4
	jfk = 5
	lys = 6
	bva = 7
)

var testAirports = []models.Airport{
	{ID: cdg, IATA: "CDG", Size: 7, Population: 11_000_000, CountryCode: "FR", Income: 45_000, RunwayLength: 4200, Zone: "EU", Latitude: 49.0097, Longitude: 2.5479},
	{ID: lhr, IATA: "LHR", Size: 7, Population: 9_000_000, CountryCode: "GB", Income: 48_000, RunwayLength: 3900, Zone: "EU", Latitude: 51.4700, Longitude: -0.4543},
	{ID: fra, IATA: "FRA", Size: 6, Population: 5_700_000, CountryCode: "DE", Income: 50_000, RunwayLength: 4000, Zone: "EU", Latitude: 50.0379, Longitude: 8.5622},
	{ID: mad, IATA: "MAD", Size: 6, Population: 6_600_000, CountryCode: "ES", Income: 35_000, RunwayLength: 4300, Zone: "EU", Latitude: 40.4983, Longitude: -3.5676},
	{ID: jfk, IATA: "JFK", Size: 7, Population: 19_000_000, CountryCode: "US", Income: 65_000, RunwayLength: 4400, Zone: "NA", Latitude: 40.6413, Longitude: -73.7781},
	{ID: lys, IATA: "LYS", Size: 4, Population: 2_300_000, CountryCode: "FR", Income: 40_000, RunwayLength: 4000, Zone: "EU", Latitude: 45.7256, Longitude: 5.0811},
	{ID: bva, IATA: "BVA", Size: 2, Population: 50_000, CountryCode: "FR", Income: 30_000, RunwayLength: 2430, Zone: "EU", Latitude: 49.4544, Longitude: 2.1128},
}

var (
	a320 = models.AircraftModel{ID: 1, Name: "A320", Category: models.AircraftMedium, Capacity: 180, RangeKm: 6100, RunwayRequirement: 2100, SpeedKmh: 830, TurnaroundMin: 45, Price: 100e6}
	e190 = models.AircraftModel{ID: 2, Name: "E190", Category: models.AircraftRegional, Capacity: 100, RangeKm: 4000, RunwayRequirement: 2000, SpeedKmh: 820, TurnaroundMin: 35, Price: 50e6}
	b777 = models.AircraftModel{ID: 3, Name: "B777", Category: models.AircraftLarge, Capacity: 350, RangeKm: 13600, RunwayRequirement: 3000, SpeedKmh: 900, TurnaroundMin: 90, Price: 300e6}
)

const (
	botID   = 10
	rivalID = 20
	rival2  = 30
)

type testWorld struct {
	store *world.MemStore
	deps  Deps
	calc  world.Calculator
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	ctx := context.Background()
	s := world.NewMemStore()
	for _, a := range testAirports {
		require.NoError(t, s.PutAirport(ctx, a))
	}
	for _, m := range []models.AircraftModel{a320, e190, b777} {
		require.NoError(t, s.PutAircraftModel(ctx, m))
	}
	for _, a := range []models.Airline{
		{ID: botID, Name: "Bot Air", Balance: 5e8, Reputation: 50, Bot: true},
		{ID: rivalID, Name: "Rival One", Balance: 1e9},
		{ID: rival2, Name: "Rival Two", Balance: 1e9},
	} {
		require.NoError(t, s.PutAirline(ctx, a))
	}
	require.NoError(t, s.PutBase(ctx, models.Base{AirlineID: botID, AirportID: cdg, Scale: 3, Headquarter: true}))
	require.NoError(t, s.PutRelationship(ctx, "FR", "GB", 2))

	calc := world.DefaultCalculator{}
	return &testWorld{
		store: s,
		calc:  calc,
		deps:  Deps{Store: s, Calc: calc, Tuning: config.DefaultTuning(), Logger: zap.NewNop()},
	}
}

func (w *testWorld) addAircraft(t *testing.T, id int, m models.AircraftModel, ready bool) {
	t.Helper()
	require.NoError(t, w.store.PutAircraft(context.Background(), models.Aircraft{ID: id, OwnerID: botID, ModelID: m.ID, HomeAirportID: cdg, Condition: 100, Ready: ready}))
}

func (w *testWorld) airport(id int) models.Airport {
	for _, a := range testAirports {
		if a.ID == id {
			return a
		}
	}
	panic("unknown airport")
}

// standard returns the reference fares for a route between from and to.
func (w *testWorld) standard(from, to int) (models.ClassPrices, int, models.FlightCategory) {
	a, b := w.airport(from), w.airport(to)
	dist := w.calc.Distance(a, b)
	cat := w.calc.FlightCategory(a, b)
	return pricing.NewEngine(w.calc, config.DefaultTuning()).StandardFares(a, dist, cat), dist, cat
}

// addRoute stores a route at mult times the standard fare.
func (w *testWorld) addRoute(t *testing.T, id, airline, from, to int, mult float64, quality int) models.Route {
	t.Helper()
	std, dist, cat := w.standard(from, to)
	r := models.Route{
		ID:             id,
		AirlineID:      airline,
		FromAirportID:  from,
		ToAirportID:    to,
		Distance:       dist,
		Price:          std.Scale(mult),
		Capacity:       models.SeatCounts{Economy: 150, Business: 24, First: 6},
		Frequency:      10,
		RawQuality:     quality,
		FlightCategory: cat,
	}
	require.NoError(t, w.store.PutRoute(context.Background(), r))
	return r
}

// addHistory stores one record per load factor, the first being the most
// recent cycle. Offered seats are 1800 per cycle for routes from addRoute.
func (w *testWorld) addHistory(t *testing.T, routeID int, profit float64, lfs ...float64) {
	t.Helper()
	for i, lf := range lfs {
		require.NoError(t, w.store.PutConsumption(context.Background(), models.ConsumptionRecord{
			RouteID:   routeID,
			Cycle:     100 - i,
			SoldSeats: models.SeatCounts{Economy: int(math.Round(lf * 1800))},
			Profit:    profit,
		}))
	}
}

func (w *testWorld) turn(t *testing.T, kind personality.Kind) Turn {
	t.Helper()
	a, err := w.store.LoadAirline(context.Background(), botID)
	require.NoError(t, err)
	return Turn{Cycle: 1, Airline: a, Profile: personality.For(kind)}
}

func (w *testWorld) route(t *testing.T, id int) models.Route {
	t.Helper()
	for _, airline := range []int{botID, rivalID, rival2} {
		rs, err := w.store.LoadRoutes(context.Background(), airline)
		require.NoError(t, err)
		for _, r := range rs {
			if r.ID == id {
				return r
			}
		}
	}
	t.Fatalf("route %d not found", id)
	return models.Route{}
}
