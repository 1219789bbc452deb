package database

import (
	"context"
	"testing"

	"github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg, err := config.Parse([]byte("env: test\ndatabase:\n  driver: sqlite\n  path: \":memory:\"\n"), "test")
	require.NoError(t, err)
	return cfg
}

func TestConnectAndSeed(t *testing.T) {
	db, err := Connect(openSQLite(t), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	n, err := SeedDecks(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	again, err := SeedDecks(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Zero(t, again)

	var notion models.Deck
	require.NoError(t, db.Where("legacy_id = ?", 1).Take(&notion).Error)
	assert.Len(t, notion.ID, 24)
	require.NotNil(t, notion.AISummary)
	assert.Equal(t, "Seed", notion.AISummary.FundingStage)
	assert.Len(t, notion.Highlights, 3)

	var linkedin models.Deck
	require.NoError(t, db.Where("legacy_id = ?", 4).Take(&linkedin).Error)
	assert.Nil(t, linkedin.AISummary)
	assert.Empty(t, linkedin.Highlights)
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	cfg := openSQLite(t)
	cfg.Database.Driver = "oracle"
	_, err := dialectorFor(cfg)
	assert.Error(t, err)
}
