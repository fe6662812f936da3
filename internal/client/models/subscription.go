package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/movieclient/internal/timex"
)

// Tier is an ordered subscription level. The API encodes it as an integer.
type Tier int

const (
	TierNone Tier = iota
	TierBasic
	TierStandard
	TierPremium
)

var tierNames = [...]string{"NONE", "BASIC", "STANDARD", "PREMIUM"}

func (t Tier) String() string {
	if t < TierNone || t > TierPremium {
		return "Tier(" + strconv.Itoa(int(t)) + ")"
	}
	return tierNames[t]
}

func (t Tier) Valid() bool {
	return t >= TierNone && t <= TierPremium
}

// ParseTier accepts a tier name in any case or its numeric value.
func ParseTier(s string) (Tier, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range tierNames {
		if s == name {
			return Tier(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Tier(n).Valid() {
		return Tier(n), nil
	}
	return TierNone, fmt.Errorf("unknown tier %q", s)
}

type Subscription struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Tier          Tier       `json:"tier"`
	StartDate     timex.Time `json:"startDate"`
	EndDate       timex.Time `json:"endDate"`
	IsActive      bool       `json:"isActive"`
	AutoRenew     bool       `json:"autoRenew"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
}

// HasTier reports whether s is active and at least at tier t.
// A nil subscription has no tier.
func (s *Subscription) HasTier(t Tier) bool {
	return s != nil && s.IsActive && s.Tier >= t
}

// EffectiveTier is TierNone unless the subscription is active.
func (s *Subscription) EffectiveTier() Tier {
	if s == nil || !s.IsActive {
		return TierNone
	}
	return s.Tier
}
