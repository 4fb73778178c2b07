package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"scoresheet/ingestion/internal/metrics"
	"scoresheet/ingestion/internal/models"
)

// valueInputRaw stores values exactly as given, so "2-1" is never read as a date
const valueInputRaw = "RAW"

// ErrSheetNotFound is returned when the spreadsheet has no sheet with the configured title
var ErrSheetNotFound = errors.New("sheet not found in spreadsheet")

// SheetsConfig holds the Google Sheets grid settings
type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	Timeout         time.Duration
	MaxRetries      int
}

// SheetsGrid is a Grid backed by one sheet of a Google spreadsheet
type SheetsGrid struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheets  *sheets.SpreadsheetsService
	spreadsheetID string
	sheetName     string
	timeout       time.Duration
	maxRetries    int
	retryDelay    time.Duration
}

// NewSheetsGrid creates a Sheets API client authenticated with a service account key file
func NewSheetsGrid(ctx context.Context, cfg SheetsConfig) (*SheetsGrid, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewSheetsGridWithService(srv, cfg), nil
}

// NewSheetsGridWithService wraps an existing Sheets service
func NewSheetsGridWithService(srv *sheets.Service, cfg SheetsConfig) *SheetsGrid {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SheetsGrid{
		values:        srv.Spreadsheets.Values,
		spreadsheets:  srv.Spreadsheets,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		timeout:       timeout,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    1 * time.Second,
	}
}

// Dimensions returns the grid size of the configured sheet
func (g *SheetsGrid) Dimensions(ctx context.Context) (int, int, error) {
	var rows, cols int
	err := g.do(ctx, "spreadsheets.get", func(ctx context.Context) error {
		ss, err := g.spreadsheets.Get(g.spreadsheetID).
			Fields("sheets.properties").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		for _, s := range ss.Sheets {
			if s.Properties == nil || s.Properties.Title != g.sheetName {
				continue
			}
			if gp := s.Properties.GridProperties; gp != nil {
				rows, cols = int(gp.RowCount), int(gp.ColumnCount)
			}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrSheetNotFound, g.sheetName)
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch sheet metadata: %w", err)
	}
	return rows, cols, nil
}

// ReadRange reads an A1 range of the configured sheet as strings
func (g *SheetsGrid) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	var out [][]string
	err := g.do(ctx, "values.get", func(ctx context.Context) error {
		vr, err := g.values.Get(g.spreadsheetID, g.qualify(a1Range)).Context(ctx).Do()
		if err != nil {
			return err
		}
		out = stringRows(vr.Values)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", a1Range, err)
	}
	return out, nil
}

// BatchWrite writes all updates in one values.batchUpdate request. The API
// applies the ranges in order, so a repeated address keeps its last value.
func (g *SheetsGrid) BatchWrite(ctx context.Context, updates []models.CellUpdate) error {
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  g.qualify(u.Address),
			Values: [][]interface{}{{u.Value}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             data,
	}

	err := g.do(ctx, "values.batchUpdate", func(ctx context.Context) error {
		resp, err := g.values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
		if err != nil {
			return err
		}
		log.Debug().
			Int64("updated_cells", resp.TotalUpdatedCells).
			Msg("Sheets batch update applied")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to batch update values: %w", err)
	}
	return nil
}

func (g *SheetsGrid) qualify(a1Range string) string {
	return fmt.Sprintf("%s!%s", g.sheetName, a1Range)
}

// do runs one API call with a timeout per attempt and exponential backoff on
// retryable failures
func (g *SheetsGrid) do(ctx context.Context, endpoint string, call func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := g.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying Sheets request after backoff")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		err := call(attemptCtx)
		cancel()

		if err == nil {
			metrics.RecordAPICall(endpoint, "success", time.Since(start).Seconds())
			return nil
		}

		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isRetryable(err) {
			return err
		}

		log.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Msg("Received retryable error, will retry")
	}
	return lastErr
}

// isRetryable reports whether a Sheets error is worth another attempt.
// Rate limits, server errors and transport failures are; auth and other
// client errors are not.
func isRetryable(err error) bool {
	if errors.Is(err, ErrSheetNotFound) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	return true
}

func stringRows(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			if v == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprint(v))
		}
		out = append(out, cells)
	}
	return out
}
