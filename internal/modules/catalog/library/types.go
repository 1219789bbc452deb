package library

import (
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
)

const (
	DefaultRecentLimit = 5
	maxRecentLimit     = 50

	statsWindow = 7 * 24 * time.Hour
)

var (
	ErrAlreadySaved  = apperr.Wrap(apperr.ErrConflict, "deck already saved")
	ErrSavedNotFound = apperr.Wrap(apperr.ErrNotFound, "saved deck not found")
)

// RecentViews is the body of GET /recent-views. Count is the raw number of
// view records, not the number of distinct decks.
type RecentViews struct {
	Decks []models.Deck `json:"decks"`
	Count int64         `json:"count"`
}

// UsageStats feeds the dashboard.
type UsageStats struct {
	UsedSummaries int   `json:"usedSummaries"`
	SummaryLimit  int   `json:"summaryLimit"`
	IsPro         bool  `json:"isPro"`
	ViewCount     int64 `json:"viewCount"`
	ViewedDecks   int64 `json:"viewedDecks"`
	SavedDecks    int64 `json:"savedDecks"`
	WeeklyViews   int64 `json:"weeklyViews"`
	WeeklySaves   int64 `json:"weeklySaves"`
}
