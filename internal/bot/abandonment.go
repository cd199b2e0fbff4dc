package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"airline_bots/internal/models"
	"airline_bots/internal/personality"
)

// Abandoner retires routes with a poor trailing record.
type Abandoner struct {
	deps Deps
	log  *zap.Logger
}

func NewAbandoner(d Deps) *Abandoner {
	return &Abandoner{deps: d, log: d.logger()}
}

// Record summarizes one route's trailing window.
type Record struct {
	Cycles            int
	UnprofitableCount int
	AvgLoadFactor     float64
}

func summarize(r models.Route, hist []models.ConsumptionRecord) Record {
	rec := Record{Cycles: len(hist)}
	if len(hist) == 0 {
		return rec
	}
	total := 0.0
	for _, h := range hist {
		if h.Profit < 0 {
			rec.UnprofitableCount++
		}
		total += LoadFactor(r, h)
	}
	rec.AvgLoadFactor = total / float64(len(hist))
	return rec
}

// ShouldAbandon applies the candidacy rule and the archetype's load-factor
// gate. Both must hold. Windows shorter than window never qualify.
func ShouldAbandon(p personality.Profile, rec Record, window int, minLoadFactor float64) bool {
	if rec.Cycles < window {
		return false
	}
	candidate := rec.UnprofitableCount >= window ||
		(rec.AvgLoadFactor < minLoadFactor && rec.Cycles >= 3)
	return candidate && rec.AvgLoadFactor < p.AbandonLoadFactor
}

func (a *Abandoner) Act(ctx context.Context, t Turn) (Outcome, error) {
	var out Outcome
	log := a.log.With(turnFields(t, ActionAbandon)...)
	store := a.deps.Store
	window := a.deps.Tuning.UnprofitableCyclesThreshold

	routes, err := store.LoadRoutes(ctx, t.Airline.ID)
	if err != nil {
		return out, fmt.Errorf("load routes: %w", err)
	}
	for _, r := range routes {
		hist, err := store.LoadConsumption(ctx, r.ID, window)
		if err != nil {
			return out, fmt.Errorf("load consumption of route %d: %w", r.ID, err)
		}
		rec := summarize(r, hist)
		if !ShouldAbandon(t.Profile, rec, window, a.deps.Tuning.MinLoadFactorThreshold) {
			continue
		}
		if err := store.DeleteRoute(ctx, r.ID); err != nil {
			out.Failures++
			log.Warn("delete route failed", zap.Int("route", r.ID), zap.Error(err))
			continue
		}
		out.Abandoned = append(out.Abandoned, r.ID)
		log.Info("route abandoned",
			zap.Int("route", r.ID),
			zap.Int("unprofitable_cycles", rec.UnprofitableCount),
			zap.Float64("avg_load_factor", rec.AvgLoadFactor),
		)
	}
	return out, nil
}
