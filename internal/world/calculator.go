package world

import (
	"math"
	"strings"

	"airline_bots/internal/models"
)

// DefaultCalculator is a self-contained stand-in for the host simulation's
// geography, fare and demand functions.
type DefaultCalculator struct{}

var _ Calculator = DefaultCalculator{}

func (DefaultCalculator) Distance(a, b models.Airport) int {
	return int(math.Round(haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)))
}

// FlightDuration is block time in minutes: airborne time plus turnaround.
func (DefaultCalculator) FlightDuration(model models.AircraftModel, distance int) int {
	speed := float64(model.SpeedKmh)
	if speed <= 0 {
		speed = 800
	}
	mins := (float64(distance)/speed)*60 + float64(model.TurnaroundMin)
	if mins < 1 {
		mins = 1
	}
	return int(math.Ceil(mins))
}

func (DefaultCalculator) FlightCategory(a, b models.Airport) models.FlightCategory {
	switch {
	case strings.EqualFold(a.CountryCode, b.CountryCode):
		return models.Domestic
	case a.Zone != "" && strings.EqualFold(a.Zone, b.Zone):
		return models.RegionalFlight
	default:
		return models.Intercontinental
	}
}

type fareBracket struct {
	uptoKm float64
	perKm  float64
}

var fareBrackets = []fareBracket{
	{1000, 0.14},
	{3000, 0.11},
	{6000, 0.09},
	{math.MaxFloat64, 0.08},
}

var classFareMultiplier = map[models.LinkClass]float64{
	models.Economy:  1,
	models.Business: 3,
	models.First:    9,
}

// StandardFare is a tiered per-kilometre fare with category, income, class
// and passenger-type adjustments.
func (DefaultCalculator) StandardFare(distance int, category models.FlightCategory, class models.LinkClass, pax models.PassengerType, income int) float64 {
	remaining := float64(distance)
	if remaining < 0 {
		remaining = 0
	}
	fare := 30.0
	lower := 0.0
	for _, b := range fareBrackets {
		if remaining <= 0 {
			break
		}
		span := math.Min(remaining, b.uptoKm-lower)
		fare += span * b.perKm
		remaining -= span
		lower = b.uptoKm
	}

	switch category {
	case models.RegionalFlight:
		fare *= 1.05
	case models.Intercontinental:
		fare *= 1.15
	}

	incomeFactor := 0.75 + float64(income)/200_000
	fare *= math.Max(0.75, math.Min(1.25, incomeFactor))

	switch pax {
	case models.BusinessTraveler:
		fare *= 1.2
	case models.Tourist:
		fare *= 0.9
	}

	m, ok := classFareMultiplier[class]
	if !ok {
		m = 1
	}
	return fare * m
}

var segmentShare = map[models.PassengerType]float64{
	models.Traveler:         0.55,
	models.BusinessTraveler: 0.25,
	models.Tourist:          0.20,
}

// per-segment economy/business/first split
var segmentClassSplit = map[models.PassengerType][3]float64{
	models.Traveler:         {0.90, 0.08, 0.02},
	models.BusinessTraveler: {0.55, 0.35, 0.10},
	models.Tourist:          {0.95, 0.05, 0},
}

// Demand is a gravity model: weekly one-way passengers scale with the
// geometric mean of both populations, airport size and origin income, and
// decay with distance.
func (DefaultCalculator) Demand(from, to models.Airport, affinity, distance int) models.DemandBreakdown {
	out := make(models.DemandBreakdown, len(models.PassengerTypes))
	if from.ID == to.ID || from.Population <= 0 || to.Population <= 0 {
		return out
	}

	popMillions := math.Sqrt(float64(from.Population) / 1e6 * float64(to.Population) / 1e6)
	sizeFactor := float64(from.Size+to.Size) / 6
	incomeFactor := math.Max(0.3, float64(from.Income)/50_000)
	affinityFactor := math.Max(0.3, 1+float64(affinity)*0.1)

	var decay float64
	switch {
	case distance < 200:
		decay = 0.3
	case distance < 1000:
		decay = 1.0
	case distance < 3000:
		decay = 0.85
	case distance < 8000:
		decay = 0.65
	default:
		decay = 0.45
	}

	total := 120 * popMillions * sizeFactor * incomeFactor * affinityFactor * decay
	for _, pax := range models.PassengerTypes {
		seg := total * segmentShare[pax]
		split := segmentClassSplit[pax]
		out[pax] = models.SeatCounts{
			Economy:  int(seg * split[0]),
			Business: int(seg * split[1]),
			First:    int(seg * split[2]),
		}
	}
	return out
}

// Affinity combines zone kinship with the bilateral relationship score.
func (DefaultCalculator) Affinity(zoneA, zoneB string, relationship int) int {
	a := relationship
	if zoneA != "" && strings.EqualFold(zoneA, zoneB) {
		a += 2
	}
	if a < -5 {
		a = -5
	}
	if a > 10 {
		a = 10
	}
	return a
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
