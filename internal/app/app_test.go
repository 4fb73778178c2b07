package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scoresheet/ingestion/internal/config"
	"scoresheet/ingestion/internal/models"
	"scoresheet/ingestion/internal/sheet"
)

func testConfig() *config.Config {
	return &config.Config{
		GridBackend:         config.BackendXLSX,
		SheetsSheetName:     "Sheet1",
		SheetIdentityColumn: "B",
		SheetIdentityRow:    2,
		SheetHeaderColumn:   "D",
		SheetHeaderRow:      1,
		SheetRowOffset:      3,
		SheetColumnOffset:   5,
		DatabaseHost:        "db",
		DatabasePort:        5433,
		DatabaseUser:        "u",
		DatabasePassword:    "p",
		DatabaseName:        "n",
		DatabaseSSLMode:     "disable",
	}
}

func TestLayout(t *testing.T) {
	assert.Equal(t, sheet.DefaultLayout(), Layout(testConfig()))

	cfg := testConfig()
	cfg.SheetIdentityColumn = "A"
	cfg.SheetRowOffset = 2
	layout := Layout(cfg)
	assert.Equal(t, "A", layout.IdentityColumn)
	assert.Equal(t, 2, layout.RowOffset)
	assert.Equal(t, 1, layout.HeaderSkip)
}

func TestDatabaseConfig(t *testing.T) {
	db := DatabaseConfig(testConfig())
	assert.Equal(t, "db", db.Host)
	assert.Equal(t, "5433", db.Port)
	assert.Equal(t, "n", db.Database)
}

func TestLoadDirectory(t *testing.T) {
	cfg := testConfig()
	dir, err := LoadDirectory(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, dir.Identities.Len())

	cfg.DirectoryFile = filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(cfg.DirectoryFile, []byte("identities:\n  \"4915700000001\": Jan\n"), 0o600))
	dir, err = LoadDirectory(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Identities.Len())

	cfg.DirectoryFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = LoadDirectory(cfg)
	assert.Error(t, err)
}

func TestNewGrid_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.GridBackend = "csv"
	_, err := NewGrid(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown grid backend")
}

// End to end over a real workbook file
func TestService_WorkbookEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "em2024.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"", "Name", "", "Matchup", "Germany - Scotland", "Germany - Spain"}))
	require.NoError(t, f.SetCellStr("Sheet1", "D2", "Result"))
	require.NoError(t, f.SetCellStr("Sheet1", "B3", "Jan"))
	require.NoError(t, f.SetCellStr("Sheet1", "B4", "Patrick"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := testConfig()
	cfg.WorkbookPath = path
	grid, err := NewGrid(context.Background(), cfg)
	require.NoError(t, err)

	directoryFile := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(directoryFile, []byte("identities:\n  \"353860000002\": Patrick\n"), 0o600))
	cfg.DirectoryFile = directoryFile
	d, err := LoadDirectory(cfg)
	require.NoError(t, err)

	svc := NewService(cfg, grid, d)
	result, err := svc.ProcessBatch(context.Background(), []models.InboundMessage{{
		MessageID: "m1",
		Author:    "353860000002@c.us",
		Body:      "🇩🇪:🇪🇸 1:2\nGER:SCO 4:0",
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Written)

	out, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer out.Close()

	v, err := out.GetCellValue("Sheet1", "F4")
	require.NoError(t, err)
	assert.Equal(t, "1-2", v)
	v, err = out.GetCellValue("Sheet1", "E4")
	require.NoError(t, err)
	assert.Equal(t, "4-0", v)
}
