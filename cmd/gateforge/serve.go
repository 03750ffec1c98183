package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/gateforge/internal/bot"
	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the background jobs",
		Args:  cobra.NoArgs,
		RunE:  withApp(runServe),
	}
}

func runServe(cmd *cobra.Command, _ []string, a *app) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// An empty store with a backup left behind is recovered before serving
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 1 && keys[0] == database.KeyBackup {
		if restored, err := a.store.RestoreBackup(ctx); err != nil {
			a.log.Warnf("Backup restore failed: %v", err)
		} else if restored {
			a.log.Info("Data restored from the automatic backup")
		}
	}

	config := bot.DefaultConfig()
	config.Token = a.cfg.TelegramToken
	config.OwnerChatID = a.cfg.OwnerChatID
	config.BufferDays = a.cfg.BufferDays

	b, err := bot.New(config, a.store, a.log.With("component", "bot"))
	if err != nil {
		return err
	}

	jobs := scheduler.New(a.store, b, a.log.With("component", "scheduler"), scheduler.Options{
		Location:       a.cfg.Location,
		ReminderHour:   a.cfg.ReminderHour,
		BackupInterval: a.cfg.BackupInterval,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan error, 1)
	go func() {
		done <- b.Start(ctx)
	}()

	if err := jobs.Start(); err != nil {
		cancel()
		return err
	}
	defer jobs.Stop()

	a.log.Info("Bot started. Press Ctrl+C to stop.")

	select {
	case sig := <-sigChan:
		a.log.Infof("Received signal: %v", sig)
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	cancel()

	// Give in-flight handlers time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := b.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during shutdown: %v", err)
	}
	if err := a.store.CreateBackup(shutdownCtx); err != nil {
		a.log.Errorf("Final backup failed: %v", err)
	}

	a.log.Info("Bot stopped successfully")
	return nil
}
