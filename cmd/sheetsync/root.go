package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"scoresheet/ingestion/internal/app"
	"scoresheet/ingestion/internal/config"
	"scoresheet/ingestion/internal/pipeline"
	"scoresheet/ingestion/internal/repository"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "sheetsync",
	Short:         "Write chat score predictions into the tournament sheet",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		app.SetupLogger(cfg.AppEnv, cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd, replayCmd, schemaCmd, unresolvedCmd)
}

// newService builds a cycle service over the configured grid
func newService(ctx context.Context) (*pipeline.Service, error) {
	grid, err := app.NewGrid(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize grid: %w", err)
	}
	dir, err := app.LoadDirectory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}
	return app.NewService(cfg, grid, dir), nil
}

func openDatabase(ctx context.Context) (*repository.Database, error) {
	db, err := repository.NewDatabase(ctx, app.DatabaseConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
