//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoresheet/ingestion/internal/models"
)

// Integration tests for database operations
// Run with: go test -v -tags=integration ./internal/repository/...

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     envOr("DATABASE_HOST", "localhost"),
		Port:     envOr("DATABASE_PORT", "5432"),
		Database: envOr("DATABASE_NAME", "scoresheet_test"),
		User:     envOr("DATABASE_USER", "scoresheet_user"),
		Password: envOr("DATABASE_PASSWORD", "scoresheet_password"),
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.EnsureSchema(ctx))

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1), "Should have at least 1 max connection")
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	assert.NoError(t, db.EnsureSchema(ctx))
}

func TestMessageRepository_SaveAndListRecent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	prefix := uuid.NewString()
	first := models.InboundMessage{
		MessageID: prefix + "-1",
		ChatName:  "EM 2024",
		Author:    "4915700000001@c.us",
		Body:      "🇩🇪:🇪🇸 2:1",
		SentAt:    time.Now().Add(-time.Minute).UTC().Truncate(time.Microsecond),
	}
	second := models.InboundMessage{
		MessageID: prefix + "-2",
		ChatName:  "EM 2024",
		Author:    "353860000002@c.us",
		Body:      "FRA:ITA 0:0",
	}

	require.NoError(t, db.Messages.Save(ctx, first))
	require.NoError(t, db.Messages.Save(ctx, second))
	require.NoError(t, db.Messages.Save(ctx, first), "Saving a message twice is a no-op")

	recent, err := db.RecentMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, first.MessageID, recent[0].MessageID, "Oldest first")
	assert.Equal(t, first.Body, recent[0].Body)
	assert.True(t, first.SentAt.Equal(recent[0].SentAt))
	assert.Equal(t, second.MessageID, recent[1].MessageID)
	assert.True(t, recent[1].SentAt.IsZero())
}

func TestEntryRepository_SaveCycleAndListUnresolved(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	identity := uuid.NewString()
	jan := "Jan"
	unresolved := models.NewPredictionEntry(identity, &jan, "Portugal", "Czechia", 2, 0)
	resolved := models.NewPredictionEntry(identity, &jan, "Germany", "Spain", 2, 1)

	first := uuid.NewString()
	require.NoError(t, db.RecordCycle(ctx, first, []models.Resolution{
		{Entry: unresolved, Outcome: models.OutcomeUnknownMatchup},
		{Entry: resolved, Outcome: models.OutcomeResolved, Update: &models.CellUpdate{Address: "F3", Value: "2-1"}},
	}))

	entries, err := db.Entries.ListUnresolved(ctx)
	require.NoError(t, err)
	got := filterIdentity(entries, identity)
	require.Len(t, got, 1)
	assert.Equal(t, "Portugal - Czechia", got[0].MatchupLabel)
	assert.Equal(t, first, got[0].CycleID)
	assert.Nil(t, got[0].CellAddress)
	require.NotNil(t, got[0].DisplayName)
	assert.Equal(t, "Jan", *got[0].DisplayName)

	// A later cycle that writes the matchup clears it
	require.NoError(t, db.RecordCycle(ctx, uuid.NewString(), []models.Resolution{
		{Entry: unresolved, Outcome: models.OutcomeResolved, Update: &models.CellUpdate{Address: "K3", Value: "2-0"}},
	}))

	entries, err = db.Entries.ListUnresolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, filterIdentity(entries, identity))
}

func TestEntryRepository_SaveCycleEmpty(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	assert.NoError(t, db.Entries.SaveCycle(ctx, uuid.NewString(), nil))
}

func filterIdentity(entries []*LedgerEntry, identity string) []*LedgerEntry {
	var out []*LedgerEntry
	for _, e := range entries {
		if e.SubmitterIdentity == identity {
			out = append(out, e)
		}
	}
	return out
}
