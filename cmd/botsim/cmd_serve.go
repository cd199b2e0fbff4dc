package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"airline_bots/internal/api"
	"airline_bots/internal/game"
	"airline_bots/internal/logging"
	"airline_bots/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		wf     worldFlags
		addr   string
		seed   int64
		paused bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run cycles on a timer and serve the admin API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, closeStore, err := a.openStore(ctx, wf)
			if err != nil {
				return err
			}
			defer closeStore()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			rng, seed := newRand(seed)
			orch := game.New(a.deps(s), rng, game.WithRecorder(metrics.New(reg)))
			sched := game.NewScheduler(orch, a.cfg.Server.CycleInterval, logging.Component(a.log, "scheduler"))

			if addr == "" {
				addr = listenAddr(a.cfg.Server.Addr)
			}
			srv := &http.Server{
				Addr: addr,
				Handler: api.New(api.Config{
					Store:       s,
					Cycles:      sched,
					Gatherer:    reg,
					Logger:      logging.Component(a.log, "api"),
					BaseContext: ctx,
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.log.Info("server listening", zap.String("addr", addr), zap.Int64("seed", seed))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			if !paused {
				g.Go(func() error { return sched.Run(gctx) })
			}
			g.Go(func() error {
				<-gctx.Done()
				sched.Pause()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				a.log.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	f := cmd.Flags()
	f.StringVar(&wf.fixture, "world", "", "YAML world fixture to seed the store with")
	f.StringVar(&wf.airports, "airports", "", "OurAirports-style airports.csv to seed")
	f.StringVar(&addr, "addr", "", "Listen address (default from config, PORT overrides)")
	f.Int64Var(&seed, "seed", 0, "Random seed for action gates (0 = time based)")
	f.BoolVar(&paused, "paused", false, "Start with the cycle timer paused")
	return cmd
}
