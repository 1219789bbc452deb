package entitlement

import (
	"testing"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		used    int
		pro     bool
		allowed bool
		reason  string
	}{
		{name: "new user", used: 0, allowed: true, reason: ReasonFreeQuota},
		{name: "last free", used: 2, allowed: true, reason: ReasonFreeQuota},
		{name: "exhausted", used: 3, allowed: false, reason: ReasonExhausted},
		{name: "over limit", used: 7, allowed: false, reason: ReasonExhausted},
		{name: "pro", used: 3, pro: true, allowed: true, reason: ReasonPro},
		{name: "pro heavy use", used: 500, pro: true, allowed: true, reason: ReasonPro},
	}
	g := NewGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &models.User{UsedSummaries: tt.used, IsPro: tt.pro}
			d := g.Check(u)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, tt.used, d.Used)
			assert.Equal(t, FreeLimit, d.Limit)
			assert.Equal(t, u.CanSummarize(), d.Allowed)
			if tt.allowed {
				assert.NoError(t, d.Err())
			} else {
				assert.ErrorIs(t, d.Err(), apperr.ErrEntitlementDenied)
			}
		})
	}
}
