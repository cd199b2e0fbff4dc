package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"airline_bots/internal/game"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		wf         worldFlags
		cycles     int
		seed       int64
		startCycle int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a number of bot cycles and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cycles < 1 {
				return errors.New("--cycles must be >= 1")
			}
			if startCycle < 0 {
				return errors.New("--start-cycle must be >= 0")
			}
			ctx := cmd.Context()
			s, closeStore, err := a.openStore(ctx, wf)
			if err != nil {
				return err
			}
			defer closeStore()

			rng, seed := newRand(seed)
			a.log.Info("running cycles", zap.Int("cycles", cycles), zap.Int64("seed", seed), zap.Int("start_cycle", startCycle))
			orch := game.New(a.deps(s), rng, game.WithStartCycle(startCycle))

			out := cmd.OutOrStdout()
			t := newTable(out)
			t.AppendHeader(table.Row{"Cycle", "Run", "Bots", "Performed", "Mutations", "Failures", "Duration"})
			var mutations, failures int
			for i := 0; i < cycles; i++ {
				rep := orch.RunCycle(ctx)
				if rep.Err != "" {
					return fmt.Errorf("cycle %d: %s", rep.Cycle, rep.Err)
				}
				mutations += rep.Mutations()
				failures += rep.Failures()
				t.AppendRow(cycleRow(rep))
			}
			t.AppendFooter(table.Row{"", "", "", "Total", mutations, failures, ""})
			t.Render()
			fmt.Fprintf(out, "seed: %d\n", seed)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&wf.fixture, "world", "", "YAML world fixture to seed the store with")
	f.StringVar(&wf.airports, "airports", "", "OurAirports-style airports.csv to seed")
	f.IntVar(&cycles, "cycles", 1, "Number of cycles to run")
	f.Int64Var(&seed, "seed", 0, "Random seed for action gates (0 = time based)")
	f.IntVar(&startCycle, "start-cycle", 0, "Number of the last completed cycle; the first run is the one after it")
	return cmd
}
