// Package library keeps the per-user deck ledger: bookmarks and view history.
package library

import (
	"context"
	"errors"
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/modules/catalog/deck"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	resolver *deck.Resolver
	now      func() time.Time
}

func NewService(db *gorm.DB, resolver *deck.Resolver) *Service {
	return &Service{db: db, resolver: resolver, now: time.Now}
}

// Save bookmarks the deck under its canonical id.
func (s *Service) Save(ctx context.Context, userID, ref string) (*models.SavedDeck, error) {
	d, err := s.resolver.MustResolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	saved, err := s.findSaved(ctx, userID, d.ID)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		return nil, ErrAlreadySaved
	}

	now := s.now()
	row := models.SavedDeck{Base: models.Base{CreatedAt: now, UpdatedAt: now}, UserID: userID, DeckID: d.ID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySaved
		}
		// A concurrent save may have won without the driver translating the error.
		if again, findErr := s.findSaved(ctx, userID, d.ID); findErr == nil && again != nil {
			return nil, ErrAlreadySaved
		}
		return nil, err
	}
	return &row, nil
}

// Unsave reports whether a bookmark was removed. An unknown deck is an error;
// a deck that was simply not saved is not.
func (s *Service) Unsave(ctx context.Context, userID, ref string) (bool, error) {
	d, err := s.resolver.MustResolve(ctx, ref)
	if err != nil {
		return false, err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND deck_id = ?", userID, d.ID).
		Delete(&models.SavedDeck{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) IsSaved(ctx context.Context, userID, ref string) (bool, error) {
	d, err := s.resolver.MustResolve(ctx, ref)
	if err != nil {
		return false, err
	}
	saved, err := s.findSaved(ctx, userID, d.ID)
	return saved != nil, err
}

func (s *Service) findSaved(ctx context.Context, userID, deckID string) (*models.SavedDeck, error) {
	var row models.SavedDeck
	err := s.db.WithContext(ctx).Where("user_id = ? AND deck_id = ?", userID, deckID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// SavedDecks lists bookmarked decks, most recently saved first.
func (s *Service) SavedDecks(ctx context.Context, userID string) ([]models.Deck, error) {
	decks := []models.Deck{}
	err := s.db.WithContext(ctx).
		Joins("JOIN saved_decks ON saved_decks.deck_id = decks.id").
		Where("saved_decks.user_id = ?", userID).
		Order("saved_decks.created_at DESC").
		Find(&decks).Error
	return decks, err
}

// RecordView inserts a view unless the user already viewed the deck within
// models.ViewWindow, in which case the existing record is returned.
func (s *Service) RecordView(ctx context.Context, userID, ref string) (*models.View, error) {
	d, err := s.resolver.MustResolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var existing models.View
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND deck_id = ? AND created_at > ?", userID, d.ID, now.Add(-models.ViewWindow)).
		Order("created_at DESC").
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	view := models.View{Base: models.Base{CreatedAt: now, UpdatedAt: now}, UserID: userID, DeckID: d.ID}
	if err := s.db.WithContext(ctx).Create(&view).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

// RecentViews returns the limit most recently viewed distinct decks.
func (s *Service) RecentViews(ctx context.Context, userID string, limit int) ([]models.Deck, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var ids []string
	err := s.db.WithContext(ctx).Model(&models.View{}).
		Where("user_id = ?", userID).
		Group("deck_id").
		Order("MAX(created_at) DESC").
		Limit(limit).
		Pluck("deck_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Deck{}, nil
	}

	var found []models.Deck
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Deck, len(found))
	for _, d := range found {
		byID[d.ID] = d
	}
	decks := make([]models.Deck, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			decks = append(decks, d)
		}
	}
	return decks, nil
}

// ViewCount counts view records, so revisits outside the window count again.
func (s *Service) ViewCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.View{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (s *Service) Usage(ctx context.Context, u *models.User) (*UsageStats, error) {
	stats := &UsageStats{
		UsedSummaries: u.UsedSummaries,
		SummaryLimit:  models.FreeSummaryLimit,
		IsPro:         u.IsPro,
	}
	since := s.now().Add(-statsWindow)
	db := s.db.WithContext(ctx)

	var err error
	if stats.ViewCount, err = s.ViewCount(ctx, u.ID); err != nil {
		return nil, err
	}
	if err := db.Model(&models.View{}).Where("user_id = ?", u.ID).
		Distinct("deck_id").Count(&stats.ViewedDecks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SavedDeck{}).Where("user_id = ?", u.ID).
		Count(&stats.SavedDecks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.View{}).Where("user_id = ? AND created_at >= ?", u.ID, since).
		Count(&stats.WeeklyViews).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SavedDeck{}).Where("user_id = ? AND created_at >= ?", u.ID, since).
		Count(&stats.WeeklySaves).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
