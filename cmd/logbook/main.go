package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"logbook-creator/internal/infrastructure/config"
	"logbook-creator/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// app carries what every subcommand shares
type app struct {
	cfg      *config.Config
	base     *logger.ZapLogger
	log      logger.Logger
	runID    string
	logLevel string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "logbook",
		Short:         "Build a pilot logbook from operational report emails",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	runCmd := runCommand(a)
	rootCmd.AddCommand(runCmd, reorganizeCommand(a), updateAirportsCommand(a))

	// Running without a subcommand processes the inbox
	rootCmd.RunE = runCmd.RunE

	return rootCmd
}

// initialize loads configuration and the logger before any subcommand runs
func (a *app) initialize() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.base = logger.NewLogger(cfg.LogLevel)
	a.log = a.base.With("runID", a.runID, "version", cfg.AppVersion)
	return nil
}

func (a *app) sync() {
	_ = a.base.Sync()
}
