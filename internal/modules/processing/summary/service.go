// Package summary generates the one AI summary a deck may carry and charges
// the caller's usage for it.
package summary

import (
	"context"
	"errors"
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
	"github.com/coderhuBypassion/BriefBank/internal/modules/billing/entitlement"
	"github.com/coderhuBypassion/BriefBank/internal/modules/catalog/deck"
	"github.com/coderhuBypassion/BriefBank/internal/modules/processing/ai"
	"github.com/coderhuBypassion/BriefBank/internal/modules/processing/extract"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/lock"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators of Service. Metrics and Log may be nil.
type Deps struct {
	DB         *gorm.DB
	Resolver   *deck.Resolver
	Users      *account.Service
	Gate       *entitlement.Gate
	Locker     lock.Locker
	Extractor  extract.Extractor
	Summarizer ai.Summarizer
	Metrics    *metrics.Metrics
	Log        *zap.Logger
	// Timeout bounds extraction, summarization and persistence together.
	Timeout time.Duration
}

type Service struct {
	Deps
}

func NewService(deps Deps) *Service {
	if deps.Timeout <= 0 {
		deps.Timeout = defaultTimeout
	}
	if deps.Gate == nil {
		deps.Gate = entitlement.NewGate()
	}
	deps.Log = logger.OrNop(deps.Log)
	return &Service{Deps: deps}
}

// errAlreadySummarized aborts the persist transaction when another writer
// stored a summary first.
var errAlreadySummarized = errors.New("deck already summarized")

// Generate returns the deck's summary, producing and charging for it when
// the deck has none yet.
func (s *Service) Generate(ctx context.Context, id account.Identity, ref string) (*Result, error) {
	d, err := s.Resolver.MustResolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Provision(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.HasSummary() {
		s.Metrics.SummaryOutcome(outcomeCached)
		return cachedResult(d, u), nil
	}

	if decision := s.Gate.Check(u); !decision.Allowed {
		s.Metrics.SummaryOutcome(outcomeDenied)
		return nil, &DeniedError{Decision: decision}
	}

	release, err := s.Locker.Acquire(ctx, "summary:"+d.ID)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrBusy
		}
		return nil, err
	}
	defer release()

	// The previous holder may have finished while we waited.
	if d, err = s.Resolver.MustResolve(ctx, d.ID); err != nil {
		return nil, err
	}
	if d.HasSummary() {
		s.Metrics.SummaryOutcome(outcomeCached)
		return cachedResult(d, u), nil
	}

	// A client disconnect must not abandon a generation that is already
	// being paid for upstream.
	work, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.Timeout)
	defer cancel()

	return s.generate(work, d, u)
}

func (s *Service) generate(ctx context.Context, d *models.Deck, u *models.User) (*Result, error) {
	log := s.Log.With(zap.String("deck", d.ID), zap.String("user", u.ClerkID))
	start := time.Now()

	text, err := s.Extractor.ExtractText(ctx, d.FileURL)
	if err != nil {
		s.Metrics.SummaryOutcome(outcomeFailed)
		log.Warn("deck text extraction failed", zap.Error(err))
		return nil, ErrExtraction
	}
	summary, err := s.Summarizer.Summarize(ctx, text)
	if err != nil {
		s.Metrics.SummaryOutcome(outcomeFailed)
		log.Warn("deck summarization failed", zap.Error(err))
		return nil, ErrSummarization
	}
	encoded, err := summary.JSON()
	if err != nil {
		return nil, err
	}

	var charged models.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Deck{}).
			Where("id = ? AND ai_summary IS NULL", d.ID).
			Update("ai_summary", encoded)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadySummarized
		}

		res = tx.Model(&models.User{}).
			Where("clerk_id = ? AND (is_pro = ? OR used_summaries < ?)", u.ClerkID, true, entitlement.FreeLimit).
			Update("used_summaries", gorm.Expr("used_summaries + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrEntitlementDenied
		}
		return tx.Where("clerk_id = ?", u.ClerkID).First(&charged).Error
	})

	switch {
	case err == nil:
	case errors.Is(err, errAlreadySummarized):
		s.Metrics.SummaryOutcome(outcomeRaced)
		return s.storedResult(ctx, d.ID, u.ClerkID)
	case errors.Is(err, apperr.ErrEntitlementDenied):
		s.Metrics.SummaryOutcome(outcomeDenied)
		fresh, getErr := s.Users.GetByClerkID(ctx, u.ClerkID)
		if getErr != nil || fresh == nil {
			fresh = u
		}
		return nil, &DeniedError{Decision: s.Gate.Check(fresh)}
	default:
		s.Metrics.SummaryOutcome(outcomeFailed)
		return nil, err
	}

	s.Metrics.SummaryOutcome(outcomeGenerated)
	log.Info("deck summarized",
		zap.Int("used", charged.UsedSummaries),
		zap.Duration("latency", time.Since(start)),
	)
	return &Result{
		Summary:   summary,
		UsedCount: charged.UsedSummaries,
		Limit:     entitlement.FreeLimit,
		IsPro:     charged.IsPro,
	}, nil
}

func (s *Service) storedResult(ctx context.Context, deckID, clerkID string) (*Result, error) {
	d, err := s.Resolver.MustResolve(ctx, deckID)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrUnauthorized
	}
	return cachedResult(d, u), nil
}

func cachedResult(d *models.Deck, u *models.User) *Result {
	return &Result{
		Summary:   d.AISummary,
		UsedCount: u.UsedSummaries,
		Limit:     entitlement.FreeLimit,
		IsPro:     u.IsPro,
		Cached:    true,
	}
}
