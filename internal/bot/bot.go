// Package bot implements the five per-cycle decisions a bot airline makes:
// route planning, fleet advice, fare optimization, competition response and
// route abandonment.
package bot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"airline_bots/internal/config"
	"airline_bots/internal/models"
	"airline_bots/internal/personality"
	"airline_bots/internal/world"
)

// Input-insufficiency conditions. An action returning one of these did
// nothing and is reported as skipped.
var (
	ErrNoBases          = errors.New("airline has no bases")
	ErrInsufficientCash = errors.New("insufficient cash")
	ErrNoAircraft       = errors.New("no unassigned ready aircraft")
	ErrNoHistory        = errors.New("no consumption history")
	ErrFleetIdle        = errors.New("idle aircraft available")
)

// IsSkip reports whether err is an input-insufficiency condition rather
// than a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoBases) ||
		errors.Is(err, ErrInsufficientCash) ||
		errors.Is(err, ErrNoAircraft) ||
		errors.Is(err, ErrNoHistory) ||
		errors.Is(err, ErrFleetIdle)
}

type Action string

const (
	ActionPlanning    Action = "route_planning"
	ActionPurchase    Action = "aircraft_purchase"
	ActionOptimize    Action = "route_optimization"
	ActionCompetition Action = "competition_response"
	ActionAbandon     Action = "route_abandonment"
)

// Actions lists the per-cycle actions in execution order.
var Actions = []Action{ActionPlanning, ActionPurchase, ActionOptimize, ActionCompetition, ActionAbandon}

// Turn is one bot's classified snapshot for the current cycle.
type Turn struct {
	Cycle   int
	Airline models.Airline
	Profile personality.Profile
}

// Actor is one decision component.
type Actor interface {
	Act(ctx context.Context, t Turn) (Outcome, error)
}

type PriceChange struct {
	RouteID int                `json:"route_id"`
	Before  models.ClassPrices `json:"before"`
	After   models.ClassPrices `json:"after"`
	Reason  string             `json:"reason"`
}

// FrequencyAdvice is advisory output for the fleet-assignment layer. It is
// never applied here.
type FrequencyAdvice struct {
	RouteID    int     `json:"route_id"`
	LoadFactor float64 `json:"load_factor"`
	Advice     string  `json:"advice"`
}

const (
	AdviceIncreaseCapacity = "increase-capacity"
	AdviceUnderperforming  = "underperforming"
)

// Outcome is what one action did. Failures counts mutations the store
// rejected.
type Outcome struct {
	Created   []models.Route       `json:"created,omitempty"`
	Repriced  []PriceChange        `json:"repriced,omitempty"`
	Abandoned []int                `json:"abandoned,omitempty"`
	Advice    []models.FleetAdvice `json:"advice,omitempty"`
	Frequency []FrequencyAdvice    `json:"frequency,omitempty"`
	Signals   []string             `json:"signals,omitempty"`
	Failures  int                  `json:"failures,omitempty"`
}

// Mutations is the number of committed writes.
func (o Outcome) Mutations() int {
	return len(o.Created) + len(o.Repriced) + len(o.Abandoned) + len(o.Advice)
}

// Deps are shared by every component.
type Deps struct {
	Store  world.Store
	Calc   world.Calculator
	Tuning config.Tuning
	Logger *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func turnFields(t Turn, action Action) []zap.Field {
	return []zap.Field{
		zap.Int("airline", t.Airline.ID),
		zap.Stringer("personality", t.Profile.Kind),
		zap.String("action", string(action)),
	}
}
