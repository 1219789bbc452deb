package account

import (
	"context"
	"errors"
	"strings"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetByClerkID returns (nil, nil) when the user has never signed in.
func (s *Service) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("clerk_id = ?", clerkID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Provision returns the local user for id, creating it on first sight.
// Concurrent first requests race on the clerk_id unique index; the loser
// reads the winner's row.
func (s *Service) Provision(ctx context.Context, id Identity) (*models.User, error) {
	subject := strings.TrimSpace(id.Subject)
	if subject == "" {
		return nil, apperr.ErrUnauthorized
	}
	if u, err := s.GetByClerkID(ctx, subject); err != nil || u != nil {
		return u, err
	}

	u := models.User{ClerkID: subject, Email: strings.TrimSpace(id.Email)}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		existing, getErr := s.GetByClerkID(ctx, subject)
		if getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return &u, nil
}
