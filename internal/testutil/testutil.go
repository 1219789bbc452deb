// Package testutil builds in-memory databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/coderhuBypassion/BriefBank/internal/database"
	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory SQLite database private to the test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection would get its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

var legacySeq atomic.Int64

// CreateDeck inserts a deck with a fresh legacy id. mutate may adjust fields first.
func CreateDeck(t testing.TB, db *gorm.DB, mutate func(*models.Deck)) *models.Deck {
	t.Helper()
	n := int(legacySeq.Add(1)) + 1000
	d := &models.Deck{
		LegacyID:    n,
		Title:       fmt.Sprintf("Deck %d", n),
		CompanyName: fmt.Sprintf("Company %d", n),
		Industry:    "Software",
		Stage:       "Seed",
		Type:        "SaaS",
		FileURL:     fmt.Sprintf("https://files.example/deck_%d.pdf", n),
	}
	if mutate != nil {
		mutate(d)
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

// CreateUser inserts a user for clerkID. mutate may adjust fields first.
func CreateUser(t testing.TB, db *gorm.DB, clerkID string, mutate func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{ClerkID: clerkID, Email: clerkID + "@example.com"}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Summary returns a small valid summary for fixtures.
func Summary(text string) *models.AISummary {
	return &models.AISummary{
		Summary:      []string{text},
		Strengths:    []string{"strong team"},
		Weaknesses:   []string{"crowded market"},
		FundingStage: "Seed",
	}
}
