package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"airline_bots/internal/store"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema of the configured SQL store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			driver := a.cfg.Store.Driver
			if driver != store.DriverSQLite && driver != store.DriverPostgres {
				return fmt.Errorf("migrate needs a sql store driver, configured %q", driver)
			}
			ctx := cmd.Context()
			s, err := store.Open(ctx, driver, a.cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", driver)
			return nil
		},
	}
}
