package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"airline_bots/internal/personality"
)

func newBotsCmd(a *app) *cobra.Command {
	var (
		wf   worldFlags
		kind string
	)
	cmd := &cobra.Command{
		Use:   "bots",
		Short: "List bot airlines with their personality",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var only *personality.Kind
			if kind != "" {
				k, err := personality.ParseKind(kind)
				if err != nil {
					return fmt.Errorf("--personality: %w", err)
				}
				only = &k
			}
			ctx := cmd.Context()
			s, closeStore, err := a.openStore(ctx, wf)
			if err != nil {
				return err
			}
			defer closeStore()

			bots, err := s.LoadBotAirlines(ctx)
			if err != nil {
				return fmt.Errorf("load bots: %w", err)
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Personality", "Balance", "Reputation", "Service", "Routes", "Aircraft"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 4, Align: text.AlignRight},
				{Number: 5, Align: text.AlignRight},
				{Number: 6, Align: text.AlignRight},
			})
			listed := 0
			for _, b := range bots {
				k := personality.ClassifyKind(b)
				if only != nil && k != *only {
					continue
				}
				listed++
				routes, err := s.LoadRoutes(ctx, b.ID)
				if err != nil {
					return fmt.Errorf("load routes of %d: %w", b.ID, err)
				}
				fleet, err := s.LoadAircraft(ctx, b.ID)
				if err != nil {
					return fmt.Errorf("load aircraft of %d: %w", b.ID, err)
				}
				t.AppendRow(table.Row{
					b.ID,
					b.Name,
					k,
					money(b.Balance),
					fmt.Sprintf("%.0f", b.Reputation),
					fmt.Sprintf("%.0f", b.ServiceQuality),
					len(routes),
					len(fleet),
				})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d bots", listed)})
			t.Render()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&wf.fixture, "world", "", "YAML world fixture to seed the store with")
	f.StringVar(&wf.airports, "airports", "", "OurAirports-style airports.csv to seed")
	f.StringVar(&kind, "personality", "", "Only list bots of this personality (e.g. budget, PREMIUM)")
	return cmd
}
