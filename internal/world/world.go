// Package world defines the contracts the bot engine consumes from the host
// simulation, along with reference implementations used by the CLI and tests.
package world

import (
	"context"
	"errors"

	"airline_bots/internal/models"
)

var ErrNotFound = errors.New("not found")

type AirlineReader interface {
	LoadBotAirlines(ctx context.Context) ([]models.Airline, error)
	LoadAirline(ctx context.Context, airlineID int) (models.Airline, error)
}

type FleetReader interface {
	LoadBases(ctx context.Context, airlineID int) ([]models.Base, error)
	LoadAircraft(ctx context.Context, airlineID int) ([]models.Aircraft, error)
}

type RouteReader interface {
	LoadRoutes(ctx context.Context, airlineID int) ([]models.Route, error)
	// LoadRoutesByAirportPair returns routes between a and b in either direction.
	LoadRoutesByAirportPair(ctx context.Context, a, b int) ([]models.Route, error)
	// LoadConsumption returns up to cycles records for a route, most recent first.
	LoadConsumption(ctx context.Context, routeID, cycles int) ([]models.ConsumptionRecord, error)
}

type GeoReader interface {
	LoadAirports(ctx context.Context) ([]models.Airport, error)
	LoadCountryRelationships(ctx context.Context) (map[models.CountryPair]int, error)
}

type RouteWriter interface {
	// CreateRoute persists a new route and returns it with its assigned id.
	CreateRoute(ctx context.Context, r models.Route) (models.Route, error)
	// UpdateRoute replaces the stored fares of r.ID. The stored aircraft
	// assignment is carried forward.
	UpdateRoute(ctx context.Context, r models.Route) error
	DeleteRoute(ctx context.Context, routeID int) error
}

// FleetAdviceWriter hands purchase advice to the fleet layer.
type FleetAdviceWriter interface {
	RecordFleetAdvice(ctx context.Context, advice models.FleetAdvice) error
}

// Seeder loads reference data and history, keeping the ids it is given.
type Seeder interface {
	PutAirport(ctx context.Context, a models.Airport) error
	PutAirline(ctx context.Context, a models.Airline) error
	PutBase(ctx context.Context, b models.Base) error
	PutAircraftModel(ctx context.Context, m models.AircraftModel) error
	PutAircraft(ctx context.Context, a models.Aircraft) error
	PutRoute(ctx context.Context, r models.Route) error
	PutConsumption(ctx context.Context, c models.ConsumptionRecord) error
	PutRelationship(ctx context.Context, countryA, countryB string, score int) error
}

// Store is the complete data-access surface. Writes must be visible to
// subsequent reads immediately.
type Store interface {
	AirlineReader
	FleetReader
	RouteReader
	GeoReader
	RouteWriter
	FleetAdviceWriter
}

// Calculator bundles the pure functions the host simulation exposes.
type Calculator interface {
	Distance(a, b models.Airport) int
	FlightDuration(model models.AircraftModel, distance int) int
	FlightCategory(a, b models.Airport) models.FlightCategory
	StandardFare(distance int, category models.FlightCategory, class models.LinkClass, pax models.PassengerType, income int) float64
	Demand(from, to models.Airport, affinity, distance int) models.DemandBreakdown
	Affinity(zoneA, zoneB string, relationship int) int
}

// StandardFares evaluates the standard fare for all three classes using the
// traveler passenger type.
func StandardFares(c Calculator, distance int, category models.FlightCategory, income int) models.ClassPrices {
	return models.ClassPrices{
		Economy:  c.StandardFare(distance, category, models.Economy, models.Traveler, income),
		Business: c.StandardFare(distance, category, models.Business, models.Traveler, income),
		First:    c.StandardFare(distance, category, models.First, models.Traveler, income),
	}
}
