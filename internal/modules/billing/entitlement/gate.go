// Package entitlement decides whether a user may generate another summary.
package entitlement

import (
	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
)

const (
	FreeLimit = models.FreeSummaryLimit

	ReasonPro       = "pro"
	ReasonFreeQuota = "free_quota"
	ReasonExhausted = "free_limit_reached"
)

// Decision is the outcome of one entitlement check together with the usage
// figures the client shows next to it.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Used    int    `json:"summariesUsed"`
	Limit   int    `json:"summaryLimit"`
	IsPro   bool   `json:"isPro"`
}

// Err returns nil when allowed, otherwise an ErrEntitlementDenied error.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Wrapf(apperr.ErrEntitlementDenied,
		"free summary limit reached (%d/%d), upgrade to continue", d.Used, d.Limit)
}

// Gate applies the free-tier rule. It holds no state.
type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

func (g *Gate) Check(u *models.User) Decision {
	d := Decision{Used: u.UsedSummaries, Limit: FreeLimit, IsPro: u.IsPro}
	switch {
	case u.IsPro:
		d.Allowed, d.Reason = true, ReasonPro
	case u.UsedSummaries < FreeLimit:
		d.Allowed, d.Reason = true, ReasonFreeQuota
	default:
		d.Reason = ReasonExhausted
	}
	return d
}
