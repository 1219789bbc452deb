package deck

import (
	"context"
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
)

var (
	ErrNotFound   = apperr.Wrap(apperr.ErrNotFound, "deck not found")
	ErrInvalidRef = apperr.Wrap(apperr.ErrValidation, "invalid deck id")
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortAZ     = "a-z"
	SortZA     = "z-a"

	DefaultFeaturedLimit = 3
	maxFeaturedLimit     = 12
)

var sortOrders = map[string]string{
	SortNewest: "created_at DESC, legacy_id DESC",
	SortOldest: "created_at ASC, legacy_id ASC",
	SortAZ:     "title ASC",
	SortZA:     "title DESC",
}

// ListFilter narrows the catalogue. Empty fields and "all" match everything.
type ListFilter struct {
	Industry string
	Stage    string
	Type     string
	Sort     string
}

// FileLink is a URL the browser can load the deck PDF from.
type FileLink struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// URLResolver turns a stored file location into a fetchable URL.
type URLResolver interface {
	Resolve(ctx context.Context, location string) (string, time.Time, error)
}

// UserProvisioner maps the verified caller to a local user row.
type UserProvisioner interface {
	Provision(ctx context.Context, id account.Identity) (*models.User, error)
}

// ViewRecorder records that a user opened a deck.
type ViewRecorder interface {
	RecordView(ctx context.Context, userID, ref string) (*models.View, error)
}

// ImportDTO describes a deck added to the catalogue without a legacy id.
type ImportDTO struct {
	Title       string            `json:"title"       binding:"required"`
	CompanyName string            `json:"companyName" binding:"required"`
	Industry    string            `json:"industry"    binding:"required"`
	Stage       string            `json:"stage"       binding:"required"`
	Type        string            `json:"type"        binding:"required"`
	FileURL     string            `json:"fileUrl"     binding:"required"`
	SourceURL   *string           `json:"sourceUrl"`
	Highlights  []string          `json:"highlights"`
	Tags        []string          `json:"tags"`
	Year        *int              `json:"year"`
	AISummary   *models.AISummary `json:"aiSummary"`
}
