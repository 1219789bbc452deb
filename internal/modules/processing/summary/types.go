package summary

import (
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/modules/billing/entitlement"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
)

const (
	defaultTimeout = 2 * time.Minute

	outcomeCached    = "cached"
	outcomeGenerated = "generated"
	outcomeDenied    = "denied"
	outcomeFailed    = "failed"
	outcomeRaced     = "raced"
)

var (
	ErrExtraction    = apperr.Wrap(apperr.ErrUpstream, "extraction failed")
	ErrSummarization = apperr.Wrap(apperr.ErrUpstream, "summarization failed")
	ErrBusy          = apperr.Wrap(apperr.ErrConflict, "summary generation already in progress")
)

// Result is returned for both fresh and cached summaries.
type Result struct {
	Summary   *models.AISummary `json:"summary"`
	UsedCount int               `json:"summariesUsed"`
	Limit     int               `json:"summaryLimit"`
	IsPro     bool              `json:"isPro"`
	Cached    bool              `json:"cached"`
}

// DeniedError carries the usage that led to a denial so the handler can
// render it. It matches apperr.ErrEntitlementDenied.
type DeniedError struct {
	Decision entitlement.Decision
}

func (e *DeniedError) Error() string {
	return e.Decision.Err().Error()
}

func (e *DeniedError) Unwrap() error {
	return apperr.ErrEntitlementDenied
}
