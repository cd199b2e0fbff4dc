// Package pricing turns standard fares into personality-aware fares and
// computes weekly frequencies for new routes.
package pricing

import (
	"math"

	"airline_bots/internal/config"
	"airline_bots/internal/models"
	"airline_bots/internal/personality"
	"airline_bots/internal/world"
)

// Input describes one route being priced.
type Input struct {
	From        models.Airport
	To          models.Airport
	Distance    int
	Category    models.FlightCategory
	Profile     personality.Profile
	Competitors int
	// Demand is estimated weekly passengers across all classes.
	Demand int
	// WeeklyCapacity is seats per departure times weekly frequency.
	WeeklyCapacity int
}

type Quote struct {
	Standard    models.ClassPrices `json:"standard"`
	// Baseline is the archetype's fare before market adjustments.
	Baseline    models.ClassPrices `json:"baseline"`
	Prices      models.ClassPrices `json:"prices"`
	Competition float64            `json:"competition_multiplier"`
	Demand      float64            `json:"demand_multiplier"`
	Combined    float64            `json:"combined_multiplier"`
}

type Engine struct {
	calc   world.Calculator
	tuning config.Tuning
}

func NewEngine(calc world.Calculator, tuning config.Tuning) *Engine {
	return &Engine{calc: calc, tuning: tuning}
}

// StandardFares returns the reference fares for a route as seen from its
// origin's income level.
func (e *Engine) StandardFares(from models.Airport, distance int, category models.FlightCategory) models.ClassPrices {
	return world.StandardFares(e.calc, distance, category, from.Income)
}

// Compute prices a new route. The combined multiplier is clamped to the
// tuning's price band; cabin loading on business and first is applied after
// the clamp.
func (e *Engine) Compute(in Input) Quote {
	std := e.StandardFares(in.From, in.Distance, in.Category)
	comp := CompetitionMultiplier(in.Profile.Kind, in.Competitors)
	dem := DemandMultiplier(in.Demand, in.WeeklyCapacity)
	combined := Clamp(in.Profile.PriceMultiplier*comp*dem, e.tuning.MinPriceMultiplier, e.tuning.MaxPriceMultiplier)
	return Quote{
		Standard:    std,
		Competition: comp,
		Demand:      dem,
		Combined:    combined,
		Baseline:    in.Profile.BaselinePrices(std),
		Prices:      in.Profile.PricesAt(std, combined),
	}
}

// CompetitionMultiplier prices market power by competitor count.
func CompetitionMultiplier(k personality.Kind, competitors int) float64 {
	switch {
	case competitors <= 0:
		switch k {
		case personality.Premium:
			return 1.40
		case personality.Aggressive:
			return 1.15
		case personality.Budget:
			return 0.85
		default:
			return 1.20
		}
	case competitors == 1:
		switch k {
		case personality.Budget:
			return 0.80
		case personality.Aggressive:
			return 0.90
		case personality.Premium:
			return 1.20
		default:
			return 1.0
		}
	default:
		switch k {
		case personality.Budget:
			return 0.75
		case personality.Aggressive:
			return 0.88
		case personality.Premium:
			return 1.10
		case personality.Conservative:
			return 1.0
		default:
			return 0.95
		}
	}
}

// DemandMultiplier scales fares by the demand-to-capacity ratio. Zero
// capacity is neutral.
func DemandMultiplier(demand, capacity int) float64 {
	if capacity <= 0 {
		return 1.0
	}
	r := float64(demand) / float64(capacity)
	switch {
	case r > 2.0:
		return 1.15
	case r > 1.5:
		return 1.08
	case r < 0.5:
		return 0.85
	case r < 0.8:
		return 0.92
	default:
		return 1.0
	}
}

// Bounds are per-class fare limits derived from standard fares.
type Bounds struct {
	Min models.ClassPrices
	Max models.ClassPrices
}

// NewBounds keeps economy within [minMult, maxMult] of standard economy.
// Business and first are floored at 2x and 3x the economy minimum and capped
// at maxMult of their own standard fare.
func NewBounds(std models.ClassPrices, minMult, maxMult float64) Bounds {
	minEco := std.Economy * minMult
	return Bounds{
		Min: models.ClassPrices{
			Economy:  minEco,
			Business: 2 * minEco,
			First:    3 * minEco,
		},
		Max: std.Scale(maxMult),
	}
}

func (b Bounds) Clamp(p models.ClassPrices) models.ClassPrices {
	return models.ClassPrices{
		Economy:  Clamp(p.Economy, b.Min.Economy, b.Max.Economy),
		Business: Clamp(p.Business, b.Min.Business, b.Max.Business),
		First:    Clamp(p.First, b.Min.First, b.Max.First),
	}
}

// Clamp returns v bounded to [lo, hi]. When lo exceeds hi the floor wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Frequency is the weekly departure count for a new route.
func Frequency(p personality.Profile, demand, seats, distance, maxWeekly int) int {
	if maxWeekly <= 0 {
		maxWeekly = 21
	}
	var f int
	if demand <= 0 || seats <= 0 {
		f = p.BaselineFrequency(distance)
	} else {
		needed := math.Ceil(float64(demand) / (float64(seats) * p.TargetLoadFactorMid()))
		switch {
		case distance > 8000:
			needed *= 0.5
		case distance > 5000:
			needed *= 0.7
		case distance > 2000:
			needed *= 0.85
		}
		f = int(math.Round(needed))
		switch p.Kind {
		case personality.Aggressive:
			f = min(f+2, 21)
		case personality.Budget:
			f = min(f+3, 28)
		case personality.Premium:
			f = max(f-1, 1)
		}
	}
	return max(1, min(f, maxWeekly))
}
