package bot

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"airline_bots/internal/models"
	"airline_bots/internal/personality"
	"airline_bots/internal/pricing"
	"airline_bots/internal/world"
)

// premiumMaxCut is the largest fare reduction a premium carrier accepts in
// one optimization pass.
const premiumMaxCut = -0.02

// Optimizer tunes fares on existing routes from the latest load factor and
// the rival price level.
type Optimizer struct {
	deps    Deps
	pricing *pricing.Engine
	log     *zap.Logger
}

func NewOptimizer(d Deps) *Optimizer {
	return &Optimizer{deps: d, pricing: pricing.NewEngine(d.Calc, d.Tuning), log: d.logger()}
}

// Signal is the evidence one route's adjustment is computed from.
type Signal struct {
	LoadFactor  float64
	Competitors int
	PriceRatio  float64
	Profit      float64
}

// Steps returns the fare adjustment in price steps. One step is
// Tuning.PriceAdjustmentStep.
func Steps(p personality.Profile, s Signal) float64 {
	steps := 0.0
	switch {
	case s.LoadFactor > 0.95:
		steps += 2
	case s.LoadFactor > p.TargetLoadFactorHigh:
		steps++
	case s.LoadFactor < p.TargetLoadFactorLow:
		steps -= 2
	case s.LoadFactor < p.TargetLoadFactorLow+0.10:
		steps--
	}

	if s.Competitors > 0 {
		switch {
		case s.PriceRatio > 1.2 && p.Kind != personality.Premium:
			steps--
		case s.PriceRatio < 0.8 && s.LoadFactor > 0.8:
			steps++
		}
	} else if s.Profit > 0 && s.LoadFactor > 0.6 {
		steps += 0.5
	}

	switch p.Kind {
	case personality.Aggressive:
		if s.LoadFactor < 0.7 {
			steps--
		}
	case personality.Budget:
		if s.PriceRatio > 0.85 {
			steps--
		}
	}
	return steps
}

// Adjustment converts steps into a fractional fare change, applying the
// premium floor on cuts.
func Adjustment(p personality.Profile, steps, step float64) float64 {
	adj := steps * step
	if p.Kind == personality.Premium && adj < 0 {
		adj = math.Max(adj, premiumMaxCut)
	}
	return adj
}

func (o *Optimizer) Act(ctx context.Context, t Turn) (Outcome, error) {
	var out Outcome
	log := o.log.With(turnFields(t, ActionOptimize)...)
	store := o.deps.Store

	routes, err := store.LoadRoutes(ctx, t.Airline.ID)
	if err != nil {
		return out, fmt.Errorf("load routes: %w", err)
	}
	if len(routes) == 0 {
		return out, nil
	}
	airports, err := store.LoadAirports(ctx)
	if err != nil {
		return out, fmt.Errorf("load airports: %w", err)
	}
	idx := airportIndex(airports)

	withHistory := 0
	for _, r := range routes {
		hist, err := store.LoadConsumption(ctx, r.ID, 1)
		if err != nil {
			return out, fmt.Errorf("load consumption of route %d: %w", r.ID, err)
		}
		if len(hist) == 0 {
			continue
		}
		withHistory++
		m, err := loadMarket(ctx, store, r)
		if err != nil {
			return out, err
		}
		from, ok := idx[r.FromAirportID]
		if !ok {
			return out, fmt.Errorf("route %d origin %d: %w", r.ID, r.FromAirportID, world.ErrNotFound)
		}
		to := idx[r.ToAirportID]

		sig := Signal{
			LoadFactor:  LoadFactor(r, hist[0]),
			Competitors: m.competitors(),
			PriceRatio:  m.priceRatio(r),
			Profit:      hist[0].Profit,
		}
		adj := Adjustment(t.Profile, Steps(t.Profile, sig), o.deps.Tuning.PriceAdjustmentStep)
		std := o.pricing.StandardFares(from, r.Distance, routeCategory(o.deps.Calc, r, from, to))
		bounds := pricing.NewBounds(std, o.deps.Tuning.MinPriceMultiplier, o.deps.Tuning.MaxPriceMultiplier)
		next := bounds.Clamp(r.Price.Scale(1 + adj))

		if fa, ok := o.frequencyAdvice(t.Profile, r, sig.LoadFactor); ok {
			out.Frequency = append(out.Frequency, fa)
			log.Info("frequency advice", zap.Int("route", r.ID), zap.String("advice", fa.Advice), zap.Float64("load_factor", fa.LoadFactor))
		}

		if !pricesDiffer(r.Price, next) {
			continue
		}
		if err := store.UpdateRoute(ctx, r.WithPrice(next)); err != nil {
			out.Failures++
			log.Warn("update route failed", zap.Int("route", r.ID), zap.Error(err))
			continue
		}
		out.Repriced = append(out.Repriced, PriceChange{RouteID: r.ID, Before: r.Price, After: next, Reason: "optimization"})
		log.Info("route repriced",
			zap.Int("route", r.ID),
			zap.Float64("load_factor", sig.LoadFactor),
			zap.Float64("adjustment", adj),
			zap.Float64("economy_before", r.Price.Economy),
			zap.Float64("economy_after", next.Economy),
		)
	}
	if withHistory == 0 {
		return out, ErrNoHistory
	}
	return out, nil
}

func (o *Optimizer) frequencyAdvice(p personality.Profile, r models.Route, lf float64) (FrequencyAdvice, bool) {
	switch {
	case lf > p.TargetLoadFactorHigh && r.Frequency < o.deps.Tuning.MaxWeeklyFrequency:
		return FrequencyAdvice{RouteID: r.ID, LoadFactor: lf, Advice: AdviceIncreaseCapacity}, true
	case lf < p.TargetLoadFactorLow && r.Frequency > 1:
		return FrequencyAdvice{RouteID: r.ID, LoadFactor: lf, Advice: AdviceUnderperforming}, true
	}
	return FrequencyAdvice{}, false
}

// routeCategory prefers the stored category and derives it otherwise.
func routeCategory(calc world.Calculator, r models.Route, from, to models.Airport) models.FlightCategory {
	if r.FlightCategory != "" {
		return r.FlightCategory
	}
	return calc.FlightCategory(from, to)
}
