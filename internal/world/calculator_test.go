package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"airline_bots/internal/models"
)

var (
	cdg = models.Airport{ID: 1, IATA: "CDG", Size: 7, Population: 11_000_000, CountryCode: "FR", Zone: "EU", Income: 45_000, Latitude: 49.0097, Longitude: 2.5479}
	lhr = models.Airport{ID: 2, IATA: "LHR", Size: 7, Population: 9_000_000, CountryCode: "GB", Zone: "EU", Income: 48_000, Latitude: 51.47, Longitude: -0.4543}
	lys = models.Airport{ID: 3, IATA: "LYS", Size: 4, Population: 2_300_000, CountryCode: "FR", Zone: "EU", Income: 38_000, Latitude: 45.7256, Longitude: 5.0811}
	jfk = models.Airport{ID: 4, IATA: "JFK", Size: 7, Population: 19_000_000, CountryCode: "US", Zone: "NA", Income: 62_000, Latitude: 40.6413, Longitude: -73.7781}
)

func TestDistance(t *testing.T) {
	c := DefaultCalculator{}
	assert.InDelta(t, 348, c.Distance(cdg, lhr), 10)
	assert.InDelta(t, 5840, c.Distance(cdg, jfk), 60)
	assert.Equal(t, c.Distance(cdg, lhr), c.Distance(lhr, cdg))
	assert.Zero(t, c.Distance(cdg, cdg))
}

func TestFlightCategory(t *testing.T) {
	c := DefaultCalculator{}
	assert.Equal(t, models.Domestic, c.FlightCategory(cdg, lys))
	assert.Equal(t, models.RegionalFlight, c.FlightCategory(cdg, lhr))
	assert.Equal(t, models.Intercontinental, c.FlightCategory(cdg, jfk))
}

func TestFlightDuration(t *testing.T) {
	c := DefaultCalculator{}
	assert.Equal(t, 90, c.FlightDuration(models.AircraftModel{SpeedKmh: 800, TurnaroundMin: 30}, 800))
	assert.Equal(t, 60, c.FlightDuration(models.AircraftModel{}, 800), "unknown speed defaults to 800 km/h")
	assert.Equal(t, 1, c.FlightDuration(models.AircraftModel{SpeedKmh: 800}, 0))
}

func TestStandardFare(t *testing.T) {
	c := DefaultCalculator{}
	tests := []struct {
		name     string
		distance int
		category models.FlightCategory
		class    models.LinkClass
		pax      models.PassengerType
		income   int
		want     float64
	}{
		{"short domestic", 500, models.Domestic, models.Economy, models.Traveler, 50_000, 100},
		{"business triples", 500, models.Domestic, models.Business, models.Traveler, 50_000, 300},
		{"first", 500, models.Domestic, models.First, models.Traveler, 50_000, 900},
		{"brackets and intercontinental", 2000, models.Intercontinental, models.Economy, models.Traveler, 50_000, 322},
		{"regional", 500, models.RegionalFlight, models.Economy, models.Traveler, 50_000, 105},
		{"poor origin floor", 500, models.Domestic, models.Economy, models.Traveler, 0, 75},
		{"rich origin cap", 500, models.Domestic, models.Economy, models.Traveler, 400_000, 125},
		{"business traveler", 500, models.Domestic, models.Economy, models.BusinessTraveler, 50_000, 120},
		{"tourist", 500, models.Domestic, models.Economy, models.Tourist, 50_000, 90},
		{"negative distance", -5, models.Domestic, models.Economy, models.Traveler, 50_000, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, c.StandardFare(tt.distance, tt.category, tt.class, tt.pax, tt.income), 1e-9)
		})
	}
}

func TestStandardFares(t *testing.T) {
	got := StandardFares(DefaultCalculator{}, 500, models.Domestic, 50_000)
	assert.InDelta(t, 100, got.Economy, 1e-9)
	assert.InDelta(t, 300, got.Business, 1e-9)
	assert.InDelta(t, 900, got.First, 1e-9)
}

func TestDemand(t *testing.T) {
	c := DefaultCalculator{}
	assert.Zero(t, c.Demand(cdg, cdg, 0, 0).Total())
	assert.Zero(t, c.Demand(cdg, models.Airport{ID: 9}, 0, 500).Total())

	near := c.Demand(cdg, lhr, 2, 500)
	far := c.Demand(cdg, lhr, 2, 5000)
	assert.Greater(t, near.Total(), far.Total())
	assert.Greater(t, near.Total(), 0)
	assert.Len(t, near, len(models.PassengerTypes))
	assert.Zero(t, near[models.Tourist].First)
	assert.Greater(t, c.Demand(cdg, lhr, 8, 500).Total(), near.Total(), "affinity raises demand")
}

func TestAffinity(t *testing.T) {
	c := DefaultCalculator{}
	assert.Equal(t, 5, c.Affinity("EU", "eu", 3))
	assert.Equal(t, 3, c.Affinity("EU", "NA", 3))
	assert.Equal(t, 3, c.Affinity("", "", 3))
	assert.Equal(t, 10, c.Affinity("EU", "EU", 20))
	assert.Equal(t, -5, c.Affinity("EU", "NA", -9))
}
