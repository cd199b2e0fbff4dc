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

const (
	defaultLoadFactor     = 0.5
	comparableRawQuality  = 50
	lowShare              = 0.3
	nicheShare            = 0.2
	overpricedRatio       = 1.3
	conservativeFareFloor = 0.85
	budgetUndercut        = 0.90
	aggressiveTarget      = 0.95
)

// Responder reacts to rivals on shared airport pairs. First class fares are
// never changed.
type Responder struct {
	deps    Deps
	pricing *pricing.Engine
	log     *zap.Logger
}

func NewResponder(d Deps) *Responder {
	return &Responder{deps: d, pricing: pricing.NewEngine(d.Calc, d.Tuning), log: d.logger()}
}

// Position is one route's standing against its rivals.
type Position struct {
	Route      models.Route
	Standard   models.ClassPrices
	LoadFactor float64
	Share      float64
	market     market
}

// Triggered reports whether the position calls for a response.
func (pos Position) Triggered(p personality.Profile) bool {
	switch {
	case pos.LoadFactor < p.TargetLoadFactorLow:
		return true
	case pos.Share < lowShare && pos.market.competitors() > 1:
		return true
	case pos.Route.Price.Economy > overpricedRatio*pos.market.avgEconomy && p.Kind != personality.Premium:
		return true
	}
	return false
}

// Tactic returns the archetype's reaction to pos: the new fares, whether
// they changed, and an optional signal for the log. Every tactic is a cut:
// no class ever ends above its current fare.
func Tactic(p personality.Profile, pos Position) (models.ClassPrices, bool, string) {
	cur := pos.Route.Price
	next := cur
	m := pos.market
	eco := cur.Economy

	switch p.Kind {
	case personality.Aggressive:
		if eco > m.avgEconomy {
			next.Economy = cut(eco, aggressiveTarget*m.avgEconomy, 0)
			next.Business = cut(cur.Business, aggressiveTarget*m.avgBusiness, 0)
		}
	case personality.Budget:
		if eco >= m.minEconomy {
			next.Economy = cut(eco, budgetUndercut*m.minEconomy, 0.5*pos.Standard.Economy)
		}
	case personality.Premium:
		if m.comparableQuality(comparableRawQuality) {
			return cur, false, "holding position against comparable quality"
		}
		next.Economy = cut(eco, eco*(1+premiumMaxCut), pos.Standard.Economy)
	case personality.Conservative:
		if pos.LoadFactor < 0.5 {
			next.Economy = cut(eco, eco*0.95, conservativeFareFloor*pos.Standard.Economy)
			next.Business = cut(cur.Business, cur.Business*0.97, conservativeFareFloor*pos.Standard.Business)
		}
	case personality.Regional:
		if pos.Share < nicheShare && m.competitors() > 2 {
			return cur, false, "crowded pair, seek niche destinations"
		}
	default:
		if pos.LoadFactor < 0.6 && eco > m.avgEconomy {
			next.Economy = (eco + m.avgEconomy) / 2
		}
	}
	next.First = cur.First
	return next, pricesDiffer(cur, next), ""
}

// cut moves cur down to target, stopping at floor. A fare already at or
// below the floor stays where it is.
func cut(cur, target, floor float64) float64 {
	return math.Min(cur, math.Max(target, floor))
}

func (c *Responder) Act(ctx context.Context, t Turn) (Outcome, error) {
	var out Outcome
	log := c.log.With(turnFields(t, ActionCompetition)...)
	store := c.deps.Store
	tuning := c.deps.Tuning

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

	for _, r := range routes {
		m, err := loadMarket(ctx, store, r)
		if err != nil {
			return out, err
		}
		if m.competitors() == 0 {
			continue
		}
		from, ok := idx[r.FromAirportID]
		if !ok {
			return out, fmt.Errorf("route %d origin %d: %w", r.ID, r.FromAirportID, world.ErrNotFound)
		}
		hist, err := store.LoadConsumption(ctx, r.ID, 1)
		if err != nil {
			return out, fmt.Errorf("load consumption of route %d: %w", r.ID, err)
		}
		lf := defaultLoadFactor
		if len(hist) > 0 {
			lf = LoadFactor(r, hist[0])
		}
		pos := Position{
			Route:      r,
			Standard:   c.pricing.StandardFares(from, r.Distance, routeCategory(c.deps.Calc, r, from, idx[r.ToAirportID])),
			LoadFactor: lf,
			Share:      m.share(r),
			market:     m,
		}
		if !pos.Triggered(t.Profile) {
			continue
		}
		next, changed, signal := Tactic(t.Profile, pos)
		if signal != "" {
			out.Signals = append(out.Signals, fmt.Sprintf("route %d: %s", r.ID, signal))
			log.Info(signal, zap.Int("route", r.ID), zap.Float64("share", pos.Share), zap.Int("rivals", m.competitors()))
		}
		if !changed {
			continue
		}
		bounds := pricing.NewBounds(pos.Standard, tuning.MinPriceMultiplier, tuning.MaxPriceMultiplier)
		next.Economy = math.Min(r.Price.Economy, pricing.Clamp(next.Economy, bounds.Min.Economy, bounds.Max.Economy))
		next.Business = math.Min(r.Price.Business, pricing.Clamp(next.Business, bounds.Min.Business, bounds.Max.Business))
		if !pricesDiffer(r.Price, next) {
			continue
		}
		if err := store.UpdateRoute(ctx, r.WithPrice(next)); err != nil {
			out.Failures++
			log.Warn("update route failed", zap.Int("route", r.ID), zap.Error(err))
			continue
		}
		out.Repriced = append(out.Repriced, PriceChange{RouteID: r.ID, Before: r.Price, After: next, Reason: "competition"})
		log.Info("competitive response",
			zap.Int("route", r.ID),
			zap.Float64("share", pos.Share),
			zap.Float64("rival_avg_economy", m.avgEconomy),
			zap.Float64("economy_before", r.Price.Economy),
			zap.Float64("economy_after", next.Economy),
		)
	}
	return out, nil
}
