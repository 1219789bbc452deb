package deck

import (
	"context"
	"fmt"
	"strings"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	resolver *Resolver
	urls     URLResolver
}

func NewService(db *gorm.DB, resolver *Resolver, urls URLResolver) *Service {
	return &Service{db: db, resolver: resolver, urls: urls}
}

func (s *Service) List(ctx context.Context, f ListFilter, page pagination.Query) ([]models.Deck, error) {
	sort := strings.ToLower(strings.TrimSpace(f.Sort))
	if sort == "" {
		sort = SortNewest
	}
	order, ok := sortOrders[sort]
	if !ok {
		return nil, apperr.Wrapf(apperr.ErrValidation, "invalid sort %q", f.Sort)
	}

	q := s.db.WithContext(ctx).Model(&models.Deck{})
	q = applyFilter(q, "industry", f.Industry)
	q = applyFilter(q, "stage", f.Stage)
	q = applyFilter(q, "type", f.Type)

	decks := []models.Deck{}
	return decks, page.Apply(q.Order(order)).Find(&decks).Error
}

func applyFilter(q *gorm.DB, column, value string) *gorm.DB {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return q
	}
	return q.Where(column+" = ?", value)
}

// Featured returns the newest decks that already carry a summary.
func (s *Service) Featured(ctx context.Context, limit int) ([]models.Deck, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	if limit > maxFeaturedLimit {
		limit = maxFeaturedLimit
	}
	decks := []models.Deck{}
	return decks, s.db.WithContext(ctx).
		Where("ai_summary IS NOT NULL").
		Order("created_at DESC, legacy_id DESC").
		Limit(limit).
		Find(&decks).Error
}

func (s *Service) Get(ctx context.Context, ref string) (*models.Deck, error) {
	return s.resolver.MustResolve(ctx, ref)
}

// FileLink presigns s3:// locations and passes http(s) URLs through.
func (s *Service) FileLink(ctx context.Context, ref string) (*FileLink, error) {
	d, err := s.resolver.MustResolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.urls.Resolve(ctx, d.FileURL)
	if err != nil {
		return nil, apperr.WithCause(apperr.ErrUpstream, "deck file unavailable", err)
	}
	link := &FileLink{URL: url}
	if !expiresAt.IsZero() {
		link.ExpiresAt = &expiresAt
	}
	return link, nil
}

// Import adds a deck and gives it the next free legacy id.
func (s *Service) Import(ctx context.Context, dto *ImportDTO) (*models.Deck, error) {
	d := models.Deck{
		Title:       strings.TrimSpace(dto.Title),
		CompanyName: strings.TrimSpace(dto.CompanyName),
		Industry:    strings.TrimSpace(dto.Industry),
		Stage:       strings.TrimSpace(dto.Stage),
		Type:        strings.TrimSpace(dto.Type),
		FileURL:     strings.TrimSpace(dto.FileURL),
		SourceURL:   dto.SourceURL,
		Highlights:  datatypes.JSONSlice[string](nonNil(dto.Highlights)),
		Tags:        datatypes.JSONSlice[string](nonNil(dto.Tags)),
		Year:        dto.Year,
		AISummary:   dto.AISummary,
	}
	if d.Title == "" || d.FileURL == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "title and fileUrl are required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		row := tx.Model(&models.Deck{}).Select("COALESCE(MAX(legacy_id), 0)").Row()
		if err := row.Scan(&maxID); err != nil {
			return fmt.Errorf("next legacy id: %w", err)
		}
		d.LegacyID = int(maxID) + 1
		return tx.Create(&d).Error
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
