// Package gate decides whether protected content may be shown. Evaluate is
// a pure function over a snapshot of session, subscription and device state.
package gate

import (
	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/state"
)

type Kind int

const (
	Allowed Kind = iota
	NeedsLogin
	NeedsSubscription
	DeviceLimitReached
)

func (k Kind) String() string {
	switch k {
	case Allowed:
		return "allowed"
	case NeedsLogin:
		return "needsLogin"
	case NeedsSubscription:
		return "needsSubscription"
	case DeviceLimitReached:
		return "deviceLimitReached"
	}
	return "unknown"
}

// Input is everything the gate looks at.
type Input struct {
	Authenticated bool
	User          *models.User
	Subscription  *models.Subscription
	DeviceCount   int
	MaxDevices    int
}

type Requirement struct {
	Tier             models.Tier
	CheckDeviceLimit bool
}

// Require is the usual requirement: tier t with the device check on.
func Require(t models.Tier) Requirement {
	return Requirement{Tier: t, CheckDeviceLimit: true}
}

// Decision carries the data each blocking prompt needs.
type Decision struct {
	Kind         Kind
	RequiredTier models.Tier
	CurrentTier  models.Tier
	DeviceCount  int
	MaxDevices   int
}

func (d Decision) Allowed() bool { return d.Kind == Allowed }

// Evaluate applies the checks in order: login, tier, device limit.
func Evaluate(in Input, req Requirement) Decision {
	if !in.Authenticated || in.User == nil {
		return Decision{Kind: NeedsLogin, RequiredTier: req.Tier}
	}

	if req.Tier > models.TierNone && !in.Subscription.HasTier(req.Tier) {
		return Decision{
			Kind:         NeedsSubscription,
			RequiredTier: req.Tier,
			CurrentTier:  in.Subscription.EffectiveTier(),
		}
	}

	if req.CheckDeviceLimit && in.MaxDevices > 0 && in.DeviceCount >= in.MaxDevices {
		return Decision{
			Kind:         DeviceLimitReached,
			RequiredTier: req.Tier,
			DeviceCount:  in.DeviceCount,
			MaxDevices:   in.MaxDevices,
		}
	}

	return Decision{Kind: Allowed, RequiredTier: req.Tier, CurrentTier: in.Subscription.EffectiveTier()}
}

// FromStores snapshots the live containers into an Input.
func FromStores(s *state.Stores) Input {
	sess := s.Session.Snapshot()
	sub := s.Subscription.Snapshot()
	dev := s.Devices.Snapshot()
	return Input{
		Authenticated: sess.IsAuthenticated,
		User:          sess.User,
		Subscription:  sub.Subscription,
		DeviceCount:   dev.Count(),
		MaxDevices:    dev.MaxDevices,
	}
}
