// Package main is the entry point for the Notation application.
// It initializes all components and runs the requested command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"notation/local-app/internal/cli"
	"notation/local-app/internal/config"
	"notation/local-app/internal/data"
	"notation/local-app/internal/event"
	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
	"notation/local-app/internal/storage"
	"notation/local-app/internal/ui"
)

var (
	rootCmd = &cobra.Command{
		Use:          "notation",
		Short:        "Hierarchical notes in pages and blocks",
		SilenceUsage: true,
		RunE:         runREPL,
	}

	configPath string
	dbPath     string
	strategy   string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the configuration file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the SQLite database, overriding the configuration")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Subtree query strategy: recursive or iterative")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug entries to the info log")

	rootCmd.AddCommand(replCmd, pagesCmd, pageCmd, addCmd, exportCmd, importCmd, logsCmd)
}

// app holds the components shared by every command.
type app struct {
	cfg    *model.Config
	logger *log.Logger
	store  *storage.Storage
	events *event.EventManager
	cli    *cli.CLI
}

// newApp loads configuration and wires storage, events, data and the CLI.
func newApp(ctx context.Context) (*app, error) {
	config.SetPath(configPath)
	if err := config.ConfigLoad(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.ConfigGet()
	if dbPath != "" {
		cfg.DatabaseType = string(storage.SQLite)
		cfg.DatabaseDir, cfg.DatabaseFile = filepath.Split(dbPath)
	}
	if strategy != "" {
		cfg.QueryStrategy = strategy
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	level := log.LevelInfo
	if verbose {
		level = log.LevelDebug
	}
	logger, err := log.NewLogger(cfg, level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info(ctx, "Application started", log.Fields{"database": cfg.DatabaseType, "strategy": cfg.QueryStrategy})

	store, err := storage.NewStorage(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize storage", log.Fields{"error": err})
		logger.Close()
		return nil, err
	}
	logger.Info(ctx, "Storage initialized", nil)

	events := event.NewEventManager(logger)
	subscribeLogging(events, logger)

	dataManager := data.NewManager(store, events, logger)
	useColor := ui.ColorEnabled(os.Stdout, cfg.Color)

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		events: events,
		cli:    cli.NewCLI(dataManager, logger, os.Stdout, useColor),
	}, nil
}

// subscribeLogging records data changes in the info log.
func subscribeLogging(events *event.EventManager, logger *log.Logger) {
	for _, t := range []event.EventType{event.BlockAdded, event.PageImported, event.PageExported} {
		events.Subscribe(t, func(e event.Event) {
			logger.Debug(context.Background(), "Event", log.Fields{"type": e.Type.String(), "data": fmt.Sprintf("%+v", e.Data)})
		})
	}
}

func (a *app) Close() {
	a.events.Wait()
	if err := a.store.Close(); err != nil {
		a.logger.Error(context.Background(), "Failed to close storage", log.Fields{"error": err})
	}
	a.logger.Info(context.Background(), "Application stopped", nil)
	a.logger.Close()
}

// withApp runs fn with a wired app and a context cancelled on interrupt.
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
