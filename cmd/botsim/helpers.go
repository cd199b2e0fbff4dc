package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"airline_bots/internal/bot"
	"airline_bots/internal/game"
	"airline_bots/internal/logging"
	"airline_bots/internal/store"
	"airline_bots/internal/world"
)

// worldFlags select what to seed the configured store with.
type worldFlags struct {
	fixture  string
	airports string
}

type seededStore interface {
	world.Store
	world.Seeder
}

// openStore opens the configured store and seeds it. The returned closer
// must be called when done.
func (a *app) openStore(ctx context.Context, wf worldFlags) (world.Store, func() error, error) {
	var (
		s       seededStore
		closeFn = func() error { return nil }
	)
	switch a.cfg.Store.Driver {
	case "memory":
		s = world.NewMemStore()
	default:
		sq, err := store.Open(ctx, a.cfg.Store.Driver, a.cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		s, closeFn = sq, sq.Close
	}

	if wf.airports != "" {
		airports, err := world.LoadAirportsCSV(wf.airports)
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("load airports %s: %w", wf.airports, err)
		}
		for _, ap := range airports {
			if err := s.PutAirport(ctx, ap); err != nil {
				_ = closeFn()
				return nil, nil, fmt.Errorf("seed airport %d: %w", ap.ID, err)
			}
		}
		a.log.Info("airports loaded", zap.String("path", wf.airports), zap.Int("count", len(airports)))
	}
	if wf.fixture != "" {
		fx, err := world.LoadFixture(wf.fixture)
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("load world %s: %w", wf.fixture, err)
		}
		if err := fx.Seed(ctx, s); err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		a.log.Info("world seeded",
			zap.String("path", wf.fixture),
			zap.Int("airports", len(fx.Airports)),
			zap.Int("airlines", len(fx.Airlines)),
			zap.Int("routes", len(fx.Routes)),
		)
	}
	return s, closeFn, nil
}

func (a *app) deps(s world.Store) bot.Deps {
	return bot.Deps{
		Store:  s,
		Calc:   world.DefaultCalculator{},
		Tuning: a.cfg.Tuning,
		Logger: logging.Component(a.log, "bot"),
	}
}

// newRand seeds from the clock when seed is zero.
func newRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// listenAddr lets PORT override the configured address, as hosting
// platforms expect.
func listenAddr(configured string) string {
	if p := os.Getenv("PORT"); p != "" {
		return ":" + strings.TrimPrefix(p, ":")
	}
	return configured
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.Comma(int64(-v))
	}
	return "$" + humanize.Comma(int64(v))
}

// cycleRow summarizes one report for the run table.
func cycleRow(rep game.CycleReport) table.Row {
	performed := 0
	for _, b := range rep.Bots {
		for _, ar := range b.Actions {
			if ar.Status == game.StatusPerformed {
				performed++
			}
		}
	}
	runID := rep.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return table.Row{rep.Cycle, runID, len(rep.Bots), performed, rep.Mutations(), rep.Failures(), rep.Duration.Round(time.Microsecond)}
}
