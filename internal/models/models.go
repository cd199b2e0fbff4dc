package models

// Airline category tags as stored by the host simulation.
const (
	CategoryDiscount = "discount"
	CategoryLuxury   = "luxury"
	CategoryStandard = "standard"
)

type Airline struct {
	ID             int     `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Balance        float64 `json:"balance" yaml:"balance"`
	Reputation     float64 `json:"reputation" yaml:"reputation"`
	ServiceQuality float64 `json:"service_quality" yaml:"service_quality"`
	Category       string  `json:"category" yaml:"category"`
	CountryCode    string  `json:"country_code" yaml:"country_code"`
	Bot            bool    `json:"bot" yaml:"bot"`
}

type Airport struct {
	ID           int     `json:"id" yaml:"id"`
	IATA         string  `json:"iata" yaml:"iata"`
	Name         string  `json:"name" yaml:"name"`
	City         string  `json:"city" yaml:"city"`
	Size         int     `json:"size" yaml:"size"`
	Population   int64   `json:"population" yaml:"population"`
	CountryCode  string  `json:"country_code" yaml:"country_code"`
	Income       int     `json:"income" yaml:"income"`
	RunwayLength int     `json:"runway_m" yaml:"runway_m"`
	Zone         string  `json:"zone" yaml:"zone"`
	Latitude     float64 `json:"lat" yaml:"lat"`
	Longitude    float64 `json:"lon" yaml:"lon"`
}

// Base is an airport an airline operates out of.
type Base struct {
	AirlineID    int  `json:"airline_id" yaml:"airline_id"`
	AirportID    int  `json:"airport_id" yaml:"airport_id"`
	Scale        int  `json:"scale" yaml:"scale"`
	Headquarter  bool `json:"headquarter" yaml:"headquarter"`
	FoundedCycle int  `json:"founded_cycle" yaml:"founded_cycle"`
}

// AircraftCategory is the coarse size class used for fleet advice.
type AircraftCategory string

const (
	AircraftRegional   AircraftCategory = "regional"
	AircraftSmall      AircraftCategory = "small"
	AircraftMedium     AircraftCategory = "medium"
	AircraftLarge      AircraftCategory = "large"
	AircraftExtraLarge AircraftCategory = "extra_large"
)

type AircraftModel struct {
	ID                int              `json:"id" yaml:"id"`
	Name              string           `json:"name" yaml:"name"`
	Category          AircraftCategory `json:"category" yaml:"category"`
	Capacity          int              `json:"capacity" yaml:"capacity"`
	RangeKm           int              `json:"range_km" yaml:"range_km"`
	RunwayRequirement int              `json:"runway_requirement_m" yaml:"runway_requirement_m"`
	SpeedKmh          int              `json:"speed_kmh" yaml:"speed_kmh"`
	TurnaroundMin     int              `json:"turnaround_min" yaml:"turnaround_min"`
	Price             float64          `json:"price" yaml:"price"`
}

// Aircraft is one airframe owned by an airline.
type Aircraft struct {
	ID            int           `json:"id" yaml:"id"`
	OwnerID       int           `json:"owner_id" yaml:"owner_id"`
	Model         AircraftModel `json:"model" yaml:"-"`
	ModelID       int           `json:"model_id" yaml:"model_id"`
	HomeAirportID int           `json:"home_airport_id" yaml:"home_airport_id"`
	Condition     float64       `json:"condition_pct" yaml:"condition_pct"`
	Ready         bool          `json:"ready" yaml:"ready"`
}

type LinkClass string

const (
	Economy  LinkClass = "economy"
	Business LinkClass = "business"
	First    LinkClass = "first"
)

var LinkClasses = []LinkClass{Economy, Business, First}

// ClassPrices holds one fare per cabin class.
type ClassPrices struct {
	Economy  float64 `json:"economy" yaml:"economy"`
	Business float64 `json:"business" yaml:"business"`
	First    float64 `json:"first" yaml:"first"`
}

func (p ClassPrices) Get(c LinkClass) float64 {
	switch c {
	case Business:
		return p.Business
	case First:
		return p.First
	default:
		return p.Economy
	}
}

func (p ClassPrices) Scale(f float64) ClassPrices {
	return ClassPrices{Economy: p.Economy * f, Business: p.Business * f, First: p.First * f}
}

// SeatCounts holds one seat count per cabin class.
type SeatCounts struct {
	Economy  int `json:"economy" yaml:"economy"`
	Business int `json:"business" yaml:"business"`
	First    int `json:"first" yaml:"first"`
}

func (s SeatCounts) Total() int {
	return s.Economy + s.Business + s.First
}

type FlightCategory string

const (
	Domestic         FlightCategory = "domestic"
	RegionalFlight   FlightCategory = "regional"
	Intercontinental FlightCategory = "intercontinental"
)

// Route is a directed service between two airports operated by one airline.
// Capacity is per departure; Frequency is weekly departures.
type Route struct {
	ID             int            `json:"id" yaml:"id"`
	AirlineID      int            `json:"airline_id" yaml:"airline_id"`
	FromAirportID  int            `json:"from_airport_id" yaml:"from_airport_id"`
	ToAirportID    int            `json:"to_airport_id" yaml:"to_airport_id"`
	Distance       int            `json:"distance_km" yaml:"distance_km"`
	Price          ClassPrices    `json:"price" yaml:"price"`
	Capacity       SeatCounts     `json:"capacity" yaml:"capacity"`
	Frequency      int            `json:"frequency" yaml:"frequency"`
	Duration       int            `json:"duration_min" yaml:"duration_min"`
	RawQuality     int            `json:"raw_quality" yaml:"raw_quality"`
	FlightCategory FlightCategory `json:"flight_category" yaml:"flight_category"`
	Assignments    map[int]int    `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

// WeeklyCapacity is seats offered across all departures in a cycle.
func (r Route) WeeklyCapacity() int {
	return r.Capacity.Total() * r.Frequency
}

// Serves reports whether the route connects a and b in either direction.
func (r Route) Serves(a, b int) bool {
	return (r.FromAirportID == a && r.ToAirportID == b) || (r.FromAirportID == b && r.ToAirportID == a)
}

// WithPrice returns a copy of the route carrying new fares. Assignments are
// copied so the snapshot never aliases the original.
func (r Route) WithPrice(p ClassPrices) Route {
	out := r
	out.Price = p
	if r.Assignments != nil {
		out.Assignments = make(map[int]int, len(r.Assignments))
		for k, v := range r.Assignments {
			out.Assignments[k] = v
		}
	}
	return out
}

// ConsumptionRecord is one cycle's realized outcome for a route.
type ConsumptionRecord struct {
	RouteID   int        `json:"route_id" yaml:"route_id"`
	Cycle     int        `json:"cycle" yaml:"cycle"`
	SoldSeats SeatCounts `json:"sold_seats" yaml:"sold_seats"`
	Revenue   float64    `json:"revenue" yaml:"revenue"`
	Profit    float64    `json:"profit" yaml:"profit"`
}

type PassengerType string

const (
	Traveler         PassengerType = "traveler"
	BusinessTraveler PassengerType = "business"
	Tourist          PassengerType = "tourist"
)

var PassengerTypes = []PassengerType{Traveler, BusinessTraveler, Tourist}

// DemandBreakdown is weekly demand per passenger segment and class.
type DemandBreakdown map[PassengerType]SeatCounts

func (d DemandBreakdown) Total() int {
	total := 0
	for _, s := range d {
		total += s.Total()
	}
	return total
}

// CountryPair keys bilateral relationship scores. Use NewCountryPair so the
// key is independent of argument order.
type CountryPair struct {
	A string
	B string
}

func NewCountryPair(a, b string) CountryPair {
	if a > b {
		a, b = b, a
	}
	return CountryPair{A: a, B: b}
}

// FleetAdvice asks the fleet layer to acquire aircraft of a category.
type FleetAdvice struct {
	AirlineID int              `json:"airline_id"`
	Cycle     int              `json:"cycle"`
	Category  AircraftCategory `json:"category"`
	Budget    float64          `json:"budget"`
	Count     int              `json:"count"`
}
