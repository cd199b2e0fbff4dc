// botsim drives bot airlines through simulation cycles.
//
// Usage:
//
//	botsim run     --world=<fixture.yaml> [--airports=<airports.csv>] [--cycles=N] [--seed=S]
//	botsim serve   --world=<fixture.yaml> [--addr=:4000]
//	botsim bots    --world=<fixture.yaml>
//	botsim migrate
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"airline_bots/internal/config"
	"airline_bots/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// app is the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "botsim",
		Short:         "Autonomous bot airlines for the airline simulation",
		Long:          "botsim classifies bot airlines into personalities and lets them plan,\nprice, defend and retire routes once per simulation cycle.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.Version = version

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML config file (optional)")
	f.StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	f.StringVar(&a.logFormat, "log-format", "", "Log format override (console, json)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newBotsCmd(a))
	root.AddCommand(newMigrateCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
