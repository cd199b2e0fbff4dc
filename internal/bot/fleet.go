package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"airline_bots/internal/models"
)

// idleTarget is the number of spare airframes a bot tries to keep.
const idleTarget = 2

// FleetAdvisor asks the fleet layer for aircraft when a bot has nothing
// spare to open routes with. It never buys anything itself.
type FleetAdvisor struct {
	deps Deps
	log  *zap.Logger
}

func NewFleetAdvisor(d Deps) *FleetAdvisor {
	return &FleetAdvisor{deps: d, log: d.logger()}
}

func (f *FleetAdvisor) Act(ctx context.Context, t Turn) (Outcome, error) {
	var out Outcome
	log := f.log.With(turnFields(t, ActionPurchase)...)
	store := f.deps.Store
	tuning := f.deps.Tuning

	budget := t.Airline.Balance * t.Profile.FleetBudgetRatio
	if budget < tuning.MinExpansionCash {
		return out, fmt.Errorf("%w: fleet budget %.0f below %.0f", ErrInsufficientCash, budget, tuning.MinExpansionCash)
	}
	fleet, err := store.LoadAircraft(ctx, t.Airline.ID)
	if err != nil {
		return out, fmt.Errorf("load aircraft: %w", err)
	}
	routes, err := store.LoadRoutes(ctx, t.Airline.ID)
	if err != nil {
		return out, fmt.Errorf("load routes: %w", err)
	}
	idle := len(availableAircraft(fleet, routes))
	if idle >= idleTarget {
		return out, fmt.Errorf("%w: %d", ErrFleetIdle, idle)
	}

	advice := models.FleetAdvice{
		AirlineID: t.Airline.ID,
		Cycle:     t.Cycle,
		Category:  t.Profile.PreferredAircraftCategory(averageDistance(routes)),
		Budget:    budget,
		Count:     max(tuning.MaxAircraftPurchasesPerCycle-idle, 1),
	}
	if err := store.RecordFleetAdvice(ctx, advice); err != nil {
		out.Failures++
		log.Warn("record fleet advice failed", zap.Error(err))
		return out, nil
	}
	out.Advice = append(out.Advice, advice)
	log.Info("fleet advice",
		zap.String("category", string(advice.Category)),
		zap.Int("count", advice.Count),
		zap.Float64("budget", advice.Budget),
		zap.Int("idle", idle),
	)
	return out, nil
}

func averageDistance(routes []models.Route) int {
	if len(routes) == 0 {
		return 0
	}
	total := 0
	for _, r := range routes {
		total += r.Distance
	}
	return total / len(routes)
}
