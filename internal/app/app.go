// Package app builds the components shared by the worker and the CLI from configuration.
package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/client"
	"scoresheet/ingestion/internal/config"
	"scoresheet/ingestion/internal/directory"
	"scoresheet/ingestion/internal/parser"
	"scoresheet/ingestion/internal/pipeline"
	"scoresheet/ingestion/internal/repository"
	"scoresheet/ingestion/internal/sheet"
)

// SetupLogger configures the global zerolog logger
func SetupLogger(appEnv, logLevel string) {
	// Pretty console logging in development
	if appEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if logLevel != "" {
		if parsed, err := zerolog.ParseLevel(logLevel); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}

// Layout returns the sheet template layout from configuration
func Layout(cfg *config.Config) sheet.Layout {
	layout := sheet.DefaultLayout()
	layout.IdentityColumn = cfg.SheetIdentityColumn
	layout.IdentityFirstRow = cfg.SheetIdentityRow
	layout.HeaderColumn = cfg.SheetHeaderColumn
	layout.HeaderRow = cfg.SheetHeaderRow
	layout.RowOffset = cfg.SheetRowOffset
	layout.ColumnOffset = cfg.SheetColumnOffset
	return layout
}

// NewGrid connects to the configured grid backend
func NewGrid(ctx context.Context, cfg *config.Config) (sheet.Grid, error) {
	switch cfg.GridBackend {
	case config.BackendSheets:
		grid, err := client.NewSheetsGrid(ctx, client.SheetsConfig{
			SpreadsheetID:   cfg.SheetsSpreadsheetID,
			SheetName:       cfg.SheetsSheetName,
			CredentialsFile: cfg.SheetsCredentialsFile,
			Timeout:         cfg.SheetsTimeout,
			MaxRetries:      cfg.SheetsMaxRetries,
		})
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("spreadsheet_id", cfg.SheetsSpreadsheetID).
			Str("sheet", cfg.SheetsSheetName).
			Msg("Google Sheets grid initialized")
		return grid, nil
	case config.BackendXLSX:
		grid, err := client.NewWorkbookGrid(cfg.WorkbookPath, cfg.SheetsSheetName)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("path", cfg.WorkbookPath).
			Str("sheet", cfg.SheetsSheetName).
			Msg("Workbook grid initialized")
		return grid, nil
	default:
		return nil, fmt.Errorf("unknown grid backend %q", cfg.GridBackend)
	}
}

// LoadDirectory reads the directory file, or returns the built-in labels when none is configured
func LoadDirectory(cfg *config.Config) (*directory.Directory, error) {
	if cfg.DirectoryFile == "" {
		log.Warn().Msg("No DIRECTORY_FILE configured, no participant names will resolve")
		return directory.Default(), nil
	}

	dir, err := directory.Load(cfg.DirectoryFile)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("path", cfg.DirectoryFile).
		Int("labels", dir.Labels.Len()).
		Int("identities", dir.Identities.Len()).
		Msg("Directory loaded")
	return dir, nil
}

// NewService builds the cycle service over a grid and directory
func NewService(cfg *config.Config, grid sheet.Grid, dir *directory.Directory) *pipeline.Service {
	extractor := parser.NewExtractor(dir.Labels, dir.Identities)
	return pipeline.NewService(extractor, grid, Layout(cfg))
}

// DatabaseConfig maps configuration to repository settings
func DatabaseConfig(cfg *config.Config) repository.Config {
	return repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}
}
