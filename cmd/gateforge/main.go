package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/gateforge/internal/config"
	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/logger"
)

// app holds what every command needs
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *database.Store
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %v", err)
	}

	db, err := database.Connect(cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return &app{
		cfg:   cfg,
		log:   log,
		store: database.NewStore(db, log, cfg.Location),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Errorf("Error closing database: %v", err)
	}
	a.log.Sync()
}

// withApp opens the application for the duration of a command
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gateforge",
		Short:         "Study plan, dependency map and flashcards for GATE CS preparation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newExportCmd(),
		newImportCmd(),
		newRestoreCmd(),
		newReportCmd(),
		newImportCardsCmd(),
		newRescheduleCmd(),
		newResourceCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
