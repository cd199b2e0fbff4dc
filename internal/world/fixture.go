package world

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"airline_bots/internal/models"
)

// Fixture is a YAML description of a world used to seed a store.
type Fixture struct {
	Airports       []models.Airport           `yaml:"airports"`
	Airlines       []models.Airline           `yaml:"airlines"`
	Bases          []models.Base              `yaml:"bases"`
	AircraftModels []models.AircraftModel     `yaml:"aircraft_models"`
	Aircraft       []models.Aircraft          `yaml:"aircraft"`
	Routes         []models.Route             `yaml:"routes"`
	Consumption    []models.ConsumptionRecord `yaml:"consumption"`
	Relationships  []Relationship             `yaml:"relationships"`
}

type Relationship struct {
	Countries [2]string `yaml:"countries"`
	Score     int       `yaml:"score"`
}

func LoadFixture(path string) (Fixture, error) {
	var f Fixture
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	return ParseFixture(raw)
}

func ParseFixture(raw []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("world fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return f, fmt.Errorf("world fixture: %w", err)
	}
	return f, nil
}

func (f Fixture) validate() error {
	airports := make(map[int]bool, len(f.Airports))
	for _, a := range f.Airports {
		if airports[a.ID] {
			return fmt.Errorf("duplicate airport id %d", a.ID)
		}
		airports[a.ID] = true
	}
	airlines := make(map[int]bool, len(f.Airlines))
	for _, a := range f.Airlines {
		airlines[a.ID] = true
	}
	for _, b := range f.Bases {
		if !airlines[b.AirlineID] || !airports[b.AirportID] {
			return fmt.Errorf("base %d@%d references unknown airline or airport", b.AirlineID, b.AirportID)
		}
	}
	for _, r := range f.Routes {
		if !airports[r.FromAirportID] || !airports[r.ToAirportID] {
			return fmt.Errorf("route %d references unknown airport", r.ID)
		}
		if !airlines[r.AirlineID] {
			return fmt.Errorf("route %d references unknown airline %d", r.ID, r.AirlineID)
		}
	}
	return nil
}

// Seed writes the fixture into s, reference data first.
func (f Fixture) Seed(ctx context.Context, s Seeder) error {
	for _, a := range f.Airports {
		if err := s.PutAirport(ctx, a); err != nil {
			return fmt.Errorf("seed airport %d: %w", a.ID, err)
		}
	}
	for _, r := range f.Relationships {
		if err := s.PutRelationship(ctx, r.Countries[0], r.Countries[1], r.Score); err != nil {
			return fmt.Errorf("seed relationship %v: %w", r.Countries, err)
		}
	}
	for _, a := range f.Airlines {
		if err := s.PutAirline(ctx, a); err != nil {
			return fmt.Errorf("seed airline %d: %w", a.ID, err)
		}
	}
	for _, b := range f.Bases {
		if err := s.PutBase(ctx, b); err != nil {
			return fmt.Errorf("seed base %d@%d: %w", b.AirlineID, b.AirportID, err)
		}
	}
	for _, m := range f.AircraftModels {
		if err := s.PutAircraftModel(ctx, m); err != nil {
			return fmt.Errorf("seed aircraft model %d: %w", m.ID, err)
		}
	}
	for _, a := range f.Aircraft {
		if err := s.PutAircraft(ctx, a); err != nil {
			return fmt.Errorf("seed aircraft %d: %w", a.ID, err)
		}
	}
	for _, r := range f.Routes {
		if err := s.PutRoute(ctx, r); err != nil {
			return fmt.Errorf("seed route %d: %w", r.ID, err)
		}
	}
	for _, c := range f.Consumption {
		if err := s.PutConsumption(ctx, c); err != nil {
			return fmt.Errorf("seed consumption %d/%d: %w", c.RouteID, c.Cycle, err)
		}
	}
	return nil
}
