package world

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"airline_bots/internal/models"
)

// MemStore keeps the whole world in memory. Every write is visible to the
// next read.
type MemStore struct {
	mu            sync.Mutex
	airlines      map[int]models.Airline
	airports      map[int]models.Airport
	bases         map[int][]models.Base
	models        map[int]models.AircraftModel
	aircraft      map[int]models.Aircraft
	routes        map[int]models.Route
	consumption   map[int][]models.ConsumptionRecord
	relationships map[models.CountryPair]int
	advice        []models.FleetAdvice
	nextRouteID   int
}

var (
	_ Store  = (*MemStore)(nil)
	_ Seeder = (*MemStore)(nil)
)

func NewMemStore() *MemStore {
	return &MemStore{
		airlines:      make(map[int]models.Airline),
		airports:      make(map[int]models.Airport),
		bases:         make(map[int][]models.Base),
		models:        make(map[int]models.AircraftModel),
		aircraft:      make(map[int]models.Aircraft),
		routes:        make(map[int]models.Route),
		consumption:   make(map[int][]models.ConsumptionRecord),
		relationships: make(map[models.CountryPair]int),
		nextRouteID:   1,
	}
}

func (s *MemStore) LoadBotAirlines(ctx context.Context) ([]models.Airline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Airline, 0, len(s.airlines))
	for _, a := range s.airlines {
		if a.Bot {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) LoadAirline(ctx context.Context, airlineID int) (models.Airline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.airlines[airlineID]
	if !ok {
		return models.Airline{}, fmt.Errorf("airline %d: %w", airlineID, ErrNotFound)
	}
	return a, nil
}

func (s *MemStore) LoadBases(ctx context.Context, airlineID int) ([]models.Base, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Base(nil), s.bases[airlineID]...), nil
}

func (s *MemStore) LoadAircraft(ctx context.Context, airlineID int) ([]models.Aircraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Aircraft
	for _, a := range s.aircraft {
		if a.OwnerID == airlineID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) LoadRoutes(ctx context.Context, airlineID int) ([]models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Route
	for _, r := range s.routes {
		if r.AirlineID == airlineID {
			out = append(out, r.WithPrice(r.Price))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) LoadRoutesByAirportPair(ctx context.Context, a, b int) ([]models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(a, b)
	var out []models.Route
	for _, r := range s.routes {
		if pairKey(r.FromAirportID, r.ToAirportID) == key {
			out = append(out, r.WithPrice(r.Price))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) LoadConsumption(ctx context.Context, routeID, cycles int) ([]models.ConsumptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist := s.consumption[routeID]
	if cycles > 0 && len(hist) > cycles {
		hist = hist[:cycles]
	}
	return append([]models.ConsumptionRecord(nil), hist...), nil
}

func (s *MemStore) LoadAirports(ctx context.Context) ([]models.Airport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Airport, 0, len(s.airports))
	for _, a := range s.airports {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) LoadCountryRelationships(ctx context.Context) (map[models.CountryPair]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.CountryPair]int, len(s.relationships))
	for k, v := range s.relationships {
		out[k] = v
	}
	return out, nil
}

func (s *MemStore) CreateRoute(ctx context.Context, r models.Route) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.airports[r.FromAirportID]; !ok {
		return models.Route{}, fmt.Errorf("create route: from airport %d: %w", r.FromAirportID, ErrNotFound)
	}
	if _, ok := s.airports[r.ToAirportID]; !ok {
		return models.Route{}, fmt.Errorf("create route: to airport %d: %w", r.ToAirportID, ErrNotFound)
	}
	r.ID = s.nextRouteID
	s.nextRouteID++
	stored := r.WithPrice(r.Price)
	s.routes[r.ID] = stored
	return stored.WithPrice(stored.Price), nil
}

func (s *MemStore) UpdateRoute(ctx context.Context, r models.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.routes[r.ID]
	if !ok {
		return fmt.Errorf("update route %d: %w", r.ID, ErrNotFound)
	}
	s.routes[r.ID] = cur.WithPrice(r.Price)
	return nil
}

func (s *MemStore) DeleteRoute(ctx context.Context, routeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[routeID]; !ok {
		return fmt.Errorf("delete route %d: %w", routeID, ErrNotFound)
	}
	delete(s.routes, routeID)
	delete(s.consumption, routeID)
	return nil
}

func (s *MemStore) RecordFleetAdvice(ctx context.Context, advice models.FleetAdvice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advice = append(s.advice, advice)
	return nil
}

// FleetAdvice returns every advice recorded so far.
func (s *MemStore) FleetAdvice() []models.FleetAdvice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FleetAdvice(nil), s.advice...)
}

func (s *MemStore) PutAirport(ctx context.Context, a models.Airport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.airports[a.ID] = a
	return nil
}

func (s *MemStore) PutAirline(ctx context.Context, a models.Airline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.airlines[a.ID] = a
	return nil
}

func (s *MemStore) PutBase(ctx context.Context, b models.Base) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bases[b.AirlineID] = append(s.bases[b.AirlineID], b)
	return nil
}

func (s *MemStore) PutAircraftModel(ctx context.Context, m models.AircraftModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[m.ID] = m
	return nil
}

// PutAircraft resolves the airframe's model by ModelID when Model is unset.
func (s *MemStore) PutAircraft(ctx context.Context, a models.Aircraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Model.ID == 0 {
		m, ok := s.models[a.ModelID]
		if !ok {
			return fmt.Errorf("aircraft %d: model %d: %w", a.ID, a.ModelID, ErrNotFound)
		}
		a.Model = m
	}
	a.ModelID = a.Model.ID
	s.aircraft[a.ID] = a
	return nil
}

func (s *MemStore) PutRoute(ctx context.Context, r models.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[r.ID] = r.WithPrice(r.Price)
	if r.ID >= s.nextRouteID {
		s.nextRouteID = r.ID + 1
	}
	return nil
}

// PutConsumption inserts a record keeping each history most-recent-first.
func (s *MemStore) PutConsumption(ctx context.Context, c models.ConsumptionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist := append(s.consumption[c.RouteID], c)
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Cycle > hist[j].Cycle })
	s.consumption[c.RouteID] = hist
	return nil
}

func (s *MemStore) PutRelationship(ctx context.Context, countryA, countryB string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships[models.NewCountryPair(countryA, countryB)] = score
	return nil
}
