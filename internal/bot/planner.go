package bot

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"airline_bots/internal/models"
	"airline_bots/internal/pricing"
	"airline_bots/internal/world"
)

// Planner opens new routes from a bot's headquarters.
type Planner struct {
	deps    Deps
	pricing *pricing.Engine
	log     *zap.Logger
}

func NewPlanner(d Deps) *Planner {
	return &Planner{deps: d, pricing: pricing.NewEngine(d.Calc, d.Tuning), log: d.logger()}
}

// Candidate is one scored destination.
type Candidate struct {
	Airport     models.Airport
	Distance    int
	Demand      int
	Competitors int
	Fit         float64
	Score       float64
}

// CompetitionFactor discounts a destination by how many routes already
// serve the pair.
func CompetitionFactor(competitors int) float64 {
	switch {
	case competitors <= 0:
		return 1.5
	case competitors == 1:
		return 1.0
	case competitors == 2:
		return 0.7
	default:
		return 0.4
	}
}

func (p *Planner) Act(ctx context.Context, t Turn) (Outcome, error) {
	var out Outcome
	log := p.log.With(turnFields(t, ActionPlanning)...)
	tuning := p.deps.Tuning
	store := p.deps.Store

	bases, err := store.LoadBases(ctx, t.Airline.ID)
	if err != nil {
		return out, fmt.Errorf("load bases: %w", err)
	}
	if len(bases) == 0 {
		return out, ErrNoBases
	}
	cash := t.Airline.Balance * tuning.ExpansionCashRatio
	if cash < tuning.MinExpansionCash {
		return out, fmt.Errorf("%w: %.0f available for expansion, need %.0f", ErrInsufficientCash, cash, tuning.MinExpansionCash)
	}
	fleet, err := store.LoadAircraft(ctx, t.Airline.ID)
	if err != nil {
		return out, fmt.Errorf("load aircraft: %w", err)
	}
	routes, err := store.LoadRoutes(ctx, t.Airline.ID)
	if err != nil {
		return out, fmt.Errorf("load routes: %w", err)
	}
	pool := availableAircraft(fleet, routes)
	if len(pool) == 0 {
		return out, ErrNoAircraft
	}
	airports, err := store.LoadAirports(ctx)
	if err != nil {
		return out, fmt.Errorf("load airports: %w", err)
	}
	relationships, err := store.LoadCountryRelationships(ctx)
	if err != nil {
		return out, fmt.Errorf("load relationships: %w", err)
	}

	idx := airportIndex(airports)
	home := headquarters(bases)
	origin, ok := idx[home.AirportID]
	if !ok {
		return out, fmt.Errorf("home airport %d: %w", home.AirportID, world.ErrNotFound)
	}

	served := make(map[int]bool)
	for _, r := range routes {
		switch origin.ID {
		case r.FromAirportID:
			served[r.ToAirportID] = true
		case r.ToAirportID:
			served[r.FromAirportID] = true
		}
	}

	candidates, err := p.Candidates(ctx, t, origin, airports, served, pool, relationships)
	if err != nil {
		return out, err
	}
	if len(candidates) > tuning.CandidatePoolSize {
		candidates = candidates[:tuning.CandidatePoolSize]
	}
	log.Debug("scored destinations", zap.Int("origin", origin.ID), zap.Int("candidates", len(candidates)))

	for _, c := range candidates {
		if len(out.Created) >= tuning.MaxRoutesPerCycle {
			break
		}
		i := firstFit(pool, origin, c)
		if i < 0 {
			log.Debug("no aircraft fits destination", zap.Int("destination", c.Airport.ID), zap.Int("distance_km", c.Distance))
			continue
		}
		aircraft := pool[i]
		route := p.buildRoute(t, origin, c, aircraft)
		created, err := store.CreateRoute(ctx, route)
		if err != nil {
			out.Failures++
			log.Warn("create route failed", zap.Int("destination", c.Airport.ID), zap.Error(err))
			continue
		}
		pool = append(pool[:i:i], pool[i+1:]...)
		served[c.Airport.ID] = true
		out.Created = append(out.Created, created)
		log.Info("route created",
			zap.Int("route", created.ID),
			zap.String("from", origin.IATA),
			zap.String("to", c.Airport.IATA),
			zap.Int("aircraft", aircraft.ID),
			zap.Int("frequency", created.Frequency),
			zap.Float64("economy", created.Price.Economy),
			zap.Float64("score", c.Score),
		)
	}
	return out, nil
}

// Candidates filters and scores every reachable destination from origin,
// best first. Destinations below the demand floor are dropped.
func (p *Planner) Candidates(ctx context.Context, t Turn, origin models.Airport, airports []models.Airport, served map[int]bool, pool []models.Aircraft, relationships map[models.CountryPair]int) ([]Candidate, error) {
	tuning := p.deps.Tuning
	calc := p.deps.Calc

	minRunway, maxRange := pool[0].Model.RunwayRequirement, 0
	for _, a := range pool {
		minRunway = min(minRunway, a.Model.RunwayRequirement)
		maxRange = max(maxRange, a.Model.RangeKm)
	}

	var out []Candidate
	for _, dest := range airports {
		if dest.ID == origin.ID || served[dest.ID] || !t.Profile.Accepts(dest) {
			continue
		}
		if dest.RunwayLength > 0 && dest.RunwayLength < minRunway {
			continue
		}
		dist := calc.Distance(origin, dest)
		if dist < tuning.MinRouteDistance || dist > maxRange {
			continue
		}
		rel := relationships[models.NewCountryPair(origin.CountryCode, dest.CountryCode)]
		affinity := calc.Affinity(origin.Zone, dest.Zone, rel)
		demand := calc.Demand(origin, dest, affinity, dist).Total()
		if float64(demand) < tuning.MinDemandThreshold {
			continue
		}
		existing, err := p.deps.Store.LoadRoutesByAirportPair(ctx, origin.ID, dest.ID)
		if err != nil {
			return nil, fmt.Errorf("load routes %d-%d: %w", origin.ID, dest.ID, err)
		}
		competitors := 0
		for _, r := range existing {
			if r.AirlineID != t.Airline.ID {
				competitors++
			}
		}
		fit := t.Profile.ScoreDestination(origin, dest, dist)
		out = append(out, Candidate{
			Airport:     dest,
			Distance:    dist,
			Demand:      demand,
			Competitors: competitors,
			Fit:         fit,
			Score:       float64(demand) * CompetitionFactor(competitors) * fit / 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Airport.ID < out[j].Airport.ID
	})
	return out, nil
}

func (p *Planner) buildRoute(t Turn, origin models.Airport, c Candidate, a models.Aircraft) models.Route {
	tuning := p.deps.Tuning
	calc := p.deps.Calc
	seats := a.Model.Capacity
	freq := pricing.Frequency(t.Profile, c.Demand, seats, c.Distance, tuning.MaxWeeklyFrequency)
	category := calc.FlightCategory(origin, c.Airport)
	quote := p.pricing.Compute(pricing.Input{
		From:           origin,
		To:             c.Airport,
		Distance:       c.Distance,
		Category:       category,
		Profile:        t.Profile,
		Competitors:    c.Competitors,
		Demand:         c.Demand,
		WeeklyCapacity: seats * freq,
	})
	return models.Route{
		AirlineID:      t.Airline.ID,
		FromAirportID:  origin.ID,
		ToAirportID:    c.Airport.ID,
		Distance:       c.Distance,
		Price:          quote.Prices,
		Capacity:       t.Profile.CapacitySplit(seats),
		Frequency:      freq,
		Duration:       calc.FlightDuration(a.Model, c.Distance),
		RawQuality:     int(t.Profile.ServiceQuality),
		FlightCategory: category,
		Assignments:    map[int]int{a.ID: freq},
	}
}

// firstFit returns the index of the first airframe in pool that can fly the
// candidate, or -1.
func firstFit(pool []models.Aircraft, origin models.Airport, c Candidate) int {
	for i, a := range pool {
		if a.Model.RangeKm >= c.Distance && runwayOK(origin, a.Model) && runwayOK(c.Airport, a.Model) {
			return i
		}
	}
	return -1
}

// headquarters picks the headquarter base, else the first one.
func headquarters(bases []models.Base) models.Base {
	for _, b := range bases {
		if b.Headquarter {
			return b
		}
	}
	return bases[0]
}
