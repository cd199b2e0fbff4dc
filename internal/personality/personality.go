// Package personality holds the six bot archetypes and the classifier that
// assigns one to an airline.
package personality

import (
	"fmt"
	"math"
	"strings"

	"airline_bots/internal/models"
)

type Kind int

const (
	Aggressive Kind = iota + 1
	Conservative
	Balanced
	Regional
	Premium
	Budget
)

var kindNames = map[Kind]string{
	Aggressive:   "AGGRESSIVE",
	Conservative: "CONSERVATIVE",
	Balanced:     "BALANCED",
	Regional:     "REGIONAL",
	Premium:      "PREMIUM",
	Budget:       "BUDGET",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind accepts the upper- or lower-case archetype name.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown personality %q", s)
}

// DistancePreference is a triangular preference over route length in km:
// strongest at Ideal, fading towards Min and Max.
type DistancePreference struct {
	Min   int
	Ideal int
	Max   int
}

// score maps a distance onto 10..100.
func (p DistancePreference) score(d int) float64 {
	switch {
	case d < p.Min || d > p.Max:
		return 10
	case d <= p.Ideal:
		if p.Ideal == p.Min {
			return 100
		}
		return 50 + 50*float64(d-p.Min)/float64(p.Ideal-p.Min)
	default:
		if p.Max == p.Ideal {
			return 100
		}
		return 100 - 50*float64(d-p.Ideal)/float64(p.Max-p.Ideal)
	}
}

type scoreWeights struct {
	size       float64
	population float64
	distance   float64
	// flat bonus for destinations in the origin's country
	sameCountry float64
}

// Profile is the immutable parameter record of one archetype. The strategy
// methods below are the only behavior bound to it.
type Profile struct {
	Kind Kind

	MinAirportSize       int
	MinPopulation        int64
	TargetLoadFactorLow  float64
	TargetLoadFactorHigh float64
	FleetBudgetRatio     float64
	ServiceQuality       float64
	PriceMultiplier      float64
	Distance             DistancePreference
	// AbandonLoadFactor is the average load factor below which an
	// unprofitable route may be retired.
	AbandonLoadFactor    float64

	weights       scoreWeights
	businessShare float64
	firstShare    float64
	aircraft      models.AircraftCategory
}

var profiles = map[Kind]Profile{
	Aggressive: {
		Kind:                 Aggressive,
		MinAirportSize:       3,
		MinPopulation:        500_000,
		TargetLoadFactorLow:  0.65,
		TargetLoadFactorHigh: 0.85,
		FleetBudgetRatio:     0.40,
		ServiceQuality:       50,
		PriceMultiplier:      0.92,
		Distance:             DistancePreference{Min: 800, Ideal: 4000, Max: 12000},
		AbandonLoadFactor:    0.20,
		weights:              scoreWeights{size: 0.35, population: 0.35, distance: 0.30},
		businessShare:        0.10,
		firstShare:           0.02,
		aircraft:             models.AircraftLarge,
	},
	Conservative: {
		Kind:                 Conservative,
		MinAirportSize:       4,
		MinPopulation:        1_000_000,
		TargetLoadFactorLow:  0.75,
		TargetLoadFactorHigh: 0.90,
		FleetBudgetRatio:     0.20,
		ServiceQuality:       60,
		PriceMultiplier:      1.05,
		Distance:             DistancePreference{Min: 300, Ideal: 1500, Max: 5000},
		AbandonLoadFactor:    0.40,
		weights:              scoreWeights{size: 0.40, population: 0.30, distance: 0.30, sameCountry: 5},
		businessShare:        0.15,
		firstShare:           0.05,
		aircraft:             models.AircraftMedium,
	},
	Balanced: {
		Kind:                 Balanced,
		MinAirportSize:       3,
		MinPopulation:        750_000,
		TargetLoadFactorLow:  0.70,
		TargetLoadFactorHigh: 0.85,
		FleetBudgetRatio:     0.30,
		ServiceQuality:       55,
		PriceMultiplier:      1.00,
		Distance:             DistancePreference{Min: 300, Ideal: 2000, Max: 8000},
		AbandonLoadFactor:    0.30,
		weights:              scoreWeights{size: 0.35, population: 0.35, distance: 0.30, sameCountry: 5},
		businessShare:        0.12,
		firstShare:           0.03,
		aircraft:             models.AircraftMedium,
	},
	Regional: {
		Kind:                 Regional,
		MinAirportSize:       2,
		MinPopulation:        200_000,
		TargetLoadFactorLow:  0.65,
		TargetLoadFactorHigh: 0.85,
		FleetBudgetRatio:     0.25,
		ServiceQuality:       45,
		PriceMultiplier:      0.98,
		Distance:             DistancePreference{Min: 150, Ideal: 600, Max: 2000},
		AbandonLoadFactor:    0.30,
		weights:              scoreWeights{size: 0.20, population: 0.30, distance: 0.50, sameCountry: 20},
		businessShare:        0.06,
		aircraft:             models.AircraftRegional,
	},
	Premium: {
		Kind:                 Premium,
		MinAirportSize:       5,
		MinPopulation:        2_000_000,
		TargetLoadFactorLow:  0.60,
		TargetLoadFactorHigh: 0.80,
		FleetBudgetRatio:     0.35,
		ServiceQuality:       80,
		PriceMultiplier:      1.25,
		Distance:             DistancePreference{Min: 1000, Ideal: 6000, Max: 14000},
		AbandonLoadFactor:    0.30,
		weights:              scoreWeights{size: 0.45, population: 0.35, distance: 0.20},
		businessShare:        0.25,
		firstShare:           0.10,
		aircraft:             models.AircraftExtraLarge,
	},
	Budget: {
		Kind:                 Budget,
		MinAirportSize:       3,
		MinPopulation:        500_000,
		TargetLoadFactorLow:  0.80,
		TargetLoadFactorHigh: 0.95,
		FleetBudgetRatio:     0.30,
		ServiceQuality:       30,
		PriceMultiplier:      0.72,
		Distance:             DistancePreference{Min: 200, Ideal: 1200, Max: 3500},
		AbandonLoadFactor:    0.35,
		weights:              scoreWeights{size: 0.30, population: 0.40, distance: 0.30, sameCountry: 10},
		aircraft:             models.AircraftMedium,
	},
}

// For returns the profile of k. Unknown kinds fall back to Balanced.
func For(k Kind) Profile {
	if p, ok := profiles[k]; ok {
		return p
	}
	return profiles[Balanced]
}

// All returns the six profiles in declaration order.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for k := Aggressive; k <= Budget; k++ {
		out = append(out, profiles[k])
	}
	return out
}

func (p Profile) String() string { return p.Kind.String() }

// TargetLoadFactorMid is the midpoint of the target load-factor band.
func (p Profile) TargetLoadFactorMid() float64 {
	return (p.TargetLoadFactorLow + p.TargetLoadFactorHigh) / 2
}

// Accepts reports whether dest clears the archetype's size and population floor.
func (p Profile) Accepts(dest models.Airport) bool {
	return dest.Size >= p.MinAirportSize && dest.Population >= p.MinPopulation
}

// ScoreDestination rates dest as seen from origin on a roughly 0..100 scale.
func (p Profile) ScoreDestination(origin, dest models.Airport, distance int) float64 {
	size := math.Min(float64(dest.Size), 7) / 7 * 100
	pop := 0.0
	if dest.Population > 0 {
		pop = math.Min(math.Log10(float64(dest.Population))/8, 1) * 100
	}
	score := p.weights.size*size + p.weights.population*pop + p.weights.distance*p.Distance.score(distance)
	if origin.CountryCode != "" && strings.EqualFold(origin.CountryCode, dest.CountryCode) {
		score += p.weights.sameCountry
	}
	return score
}

// PreferredAircraftCategory picks the size class to grow the fleet with,
// stepping up for long-haul networks except for regional carriers.
func (p Profile) PreferredAircraftCategory(avgRouteDistance int) models.AircraftCategory {
	switch {
	case p.Kind == Regional:
		if avgRouteDistance > 1500 {
			return models.AircraftSmall
		}
		return models.AircraftRegional
	case avgRouteDistance > 5000 && (p.aircraft == models.AircraftMedium || p.aircraft == models.AircraftSmall):
		return models.AircraftLarge
	default:
		return p.aircraft
	}
}

// CapacitySplit divides seats across cabins. Economy takes the remainder so
// the split always sums to seats.
func (p Profile) CapacitySplit(seats int) models.SeatCounts {
	if seats <= 0 {
		return models.SeatCounts{}
	}
	business := int(float64(seats) * p.businessShare)
	first := int(float64(seats) * p.firstShare)
	return models.SeatCounts{
		Economy:  seats - business - first,
		Business: business,
		First:    first,
	}
}

// BaselinePrices applies the archetype multiplier to standard fares with the
// same cabin loading used by dynamic pricing.
func (p Profile) BaselinePrices(standard models.ClassPrices) models.ClassPrices {
	return p.PricesAt(standard, p.PriceMultiplier)
}

// PricesAt scales standard fares by multiplier and loads business and first.
func (p Profile) PricesAt(standard models.ClassPrices, multiplier float64) models.ClassPrices {
	return models.ClassPrices{
		Economy:  standard.Economy * multiplier,
		Business: standard.Business * multiplier * BusinessLoading,
		First:    standard.First * multiplier * FirstLoading,
	}
}

// Cabin loading applied on top of the combined multiplier at route creation.
const (
	BusinessLoading = 1.05
	FirstLoading    = 1.10
)

// BaselineFrequency is the weekly departure count used when demand data is
// unavailable. It is not clamped.
func (p Profile) BaselineFrequency(distance int) int {
	var f int
	switch {
	case distance < 1000:
		f = 14
	case distance < 3000:
		f = 7
	case distance < 6000:
		f = 5
	default:
		f = 3
	}
	switch p.Kind {
	case Aggressive:
		f += 2
	case Budget:
		f += 3
	case Premium:
		f--
	}
	return f
}
