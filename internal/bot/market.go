package bot

import (
	"context"
	"fmt"
	"math"

	"airline_bots/internal/models"
	"airline_bots/internal/world"
)

// LoadFactor is sold seats over offered seats for one cycle, 0 without capacity.
func LoadFactor(r models.Route, rec models.ConsumptionRecord) float64 {
	offered := r.WeeklyCapacity()
	if offered <= 0 {
		return 0
	}
	return float64(rec.SoldSeats.Total()) / float64(offered)
}

// market is the competitive picture of one route's airport pair.
type market struct {
	rivals      []models.Route
	rivalSeats  int
	avgEconomy  float64
	avgBusiness float64
	minEconomy  float64
}

func (m market) competitors() int { return len(m.rivals) }

// share is own weekly seats over all weekly seats on the pair.
func (m market) share(own models.Route) float64 {
	total := own.WeeklyCapacity() + m.rivalSeats
	if total <= 0 {
		return 0
	}
	return float64(own.WeeklyCapacity()) / float64(total)
}

// priceRatio compares own economy fare to the rival average, 1 without rivals.
func (m market) priceRatio(own models.Route) float64 {
	if len(m.rivals) == 0 || m.avgEconomy <= 0 {
		return 1
	}
	return own.Price.Economy / m.avgEconomy
}

// comparableQuality reports whether any rival reaches the given raw quality.
func (m market) comparableQuality(threshold int) bool {
	for _, r := range m.rivals {
		if r.RawQuality >= threshold {
			return true
		}
	}
	return false
}

// loadMarket reads the routes sharing r's airport pair that are not operated
// by r's airline.
func loadMarket(ctx context.Context, routes world.RouteReader, r models.Route) (market, error) {
	pair, err := routes.LoadRoutesByAirportPair(ctx, r.FromAirportID, r.ToAirportID)
	if err != nil {
		return market{}, fmt.Errorf("load competitors of route %d: %w", r.ID, err)
	}
	m := market{minEconomy: math.Inf(1)}
	var eco, bus float64
	for _, other := range pair {
		if other.AirlineID == r.AirlineID {
			continue
		}
		m.rivals = append(m.rivals, other)
		m.rivalSeats += other.WeeklyCapacity()
		eco += other.Price.Economy
		bus += other.Price.Business
		m.minEconomy = math.Min(m.minEconomy, other.Price.Economy)
	}
	if n := float64(len(m.rivals)); n > 0 {
		m.avgEconomy = eco / n
		m.avgBusiness = bus / n
	} else {
		m.minEconomy = 0
	}
	return m, nil
}

// availableAircraft returns ready airframes not assigned to any of routes,
// in the order given.
func availableAircraft(fleet []models.Aircraft, routes []models.Route) []models.Aircraft {
	assigned := make(map[int]bool)
	for _, r := range routes {
		for id := range r.Assignments {
			assigned[id] = true
		}
	}
	var out []models.Aircraft
	for _, a := range fleet {
		if a.Ready && !assigned[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// runwayOK reports whether model can operate at airport. Airports with no
// recorded runway accept every model.
func runwayOK(a models.Airport, m models.AircraftModel) bool {
	return a.RunwayLength <= 0 || a.RunwayLength >= m.RunwayRequirement
}

func airportIndex(airports []models.Airport) map[int]models.Airport {
	idx := make(map[int]models.Airport, len(airports))
	for _, a := range airports {
		idx[a.ID] = a
	}
	return idx
}

// pricesDiffer reports whether any class moved by more than a cent.
func pricesDiffer(a, b models.ClassPrices) bool {
	const eps = 0.01
	return math.Abs(a.Economy-b.Economy) > eps ||
		math.Abs(a.Business-b.Business) > eps ||
		math.Abs(a.First-b.First) > eps
}
