package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed decks.json
var seedDecks []byte

// SeedDecks loads the embedded deck catalogue. Idempotent: decks whose legacy
// id already exists are left untouched. Returns the number of inserted decks.
func SeedDecks(ctx context.Context, db *gorm.DB, log *zap.Logger) (int, error) {
	var decks []models.Deck
	if err := json.Unmarshal(seedDecks, &decks); err != nil {
		return 0, fmt.Errorf("decode seed decks: %w", err)
	}

	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range decks {
			d := decks[i]
			var existing models.Deck
			err := tx.Select("id").Where("legacy_id = ?", d.LegacyID).Take(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(&d).Error; err != nil {
				return fmt.Errorf("seed deck %d: %w", d.LegacyID, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if log != nil {
		if inserted == 0 {
			log.Info("seed decks already present, skipping")
		} else {
			log.Info("seeded decks", zap.Int("count", inserted))
		}
	}
	return inserted, nil
}
