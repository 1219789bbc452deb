package deck

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// Resolver maps a client supplied deck reference to a stored deck. A
// reference is either the legacy integer id or the 24-hex document id;
// legacy ids win when both could match.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns (nil, nil) when nothing matches and ErrInvalidRef when ref
// is neither form. Malformed references never reach storage.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*models.Deck, error) {
	return r.ResolveTx(ctx, r.db, ref)
}

// ResolveTx is Resolve against an explicit handle, for use inside a transaction.
func (r *Resolver) ResolveTx(ctx context.Context, db *gorm.DB, ref string) (*models.Deck, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidRef
	}

	legacyID, atoiErr := strconv.Atoi(ref)
	isDocID := primitive.IsValidObjectID(ref)
	if atoiErr != nil && !isDocID {
		return nil, ErrInvalidRef
	}

	if atoiErr == nil {
		d, err := findOne(ctx, db, "legacy_id = ?", legacyID)
		if err != nil || d != nil {
			return d, err
		}
	}
	if isDocID {
		return findOne(ctx, db, "id = ?", ref)
	}
	return nil, nil
}

// MustResolve is Resolve with a miss turned into ErrNotFound.
func (r *Resolver) MustResolve(ctx context.Context, ref string) (*models.Deck, error) {
	d, err := r.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func findOne(ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*models.Deck, error) {
	var d models.Deck
	if err := db.WithContext(ctx).Where(query, args...).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}
