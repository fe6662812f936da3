package state

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/movieclient/internal/cryptox"
)

type Options struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	DefaultLocale   models.Locale
}

// Stores bundles every container. It is built once and passed around by
// pointer; there are no package-level stores.
type Stores struct {
	Credentials    *CredentialStore
	Session        *SessionStore
	Devices        *DeviceStore
	Subscription   *SubscriptionStore
	Locale         *LocaleStore
	InstallationID string
}

// Open creates the containers over repo and restores what was persisted.
func Open(ctx context.Context, repo kv.Repository, sealer *cryptox.Sealer, opts Options) (*Stores, error) {
	s := &Stores{
		Credentials:  NewCredentialStore(repo, sealer, opts.AccessTokenTTL, opts.RefreshTokenTTL),
		Session:      NewSessionStore(repo),
		Devices:      NewDeviceStore(repo),
		Subscription: NewSubscriptionStore(repo),
		Locale:       NewLocaleStore(repo, opts.DefaultLocale),
	}

	loaders := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"session", s.Session.Load},
		{"devices", s.Devices.Load},
		{"subscription", s.Subscription.Load},
		{"locale", s.Locale.Load},
	}
	for _, l := range loaders {
		if err := l.fn(ctx); err != nil {
			return nil, fmt.Errorf("load %s: %w", l.name, err)
		}
	}

	id, err := InstallationID(ctx, repo)
	if err != nil {
		return nil, err
	}
	s.InstallationID = id
	return s, nil
}

// ResetUserState clears everything tied to the logged-in user. Locale and
// the installation id are kept. The first error is returned after all
// containers were reset.
func (s *Stores) ResetUserState(ctx context.Context) error {
	var first error
	for _, fn := range []func(context.Context) error{
		s.Credentials.Clear,
		s.Session.Clear,
		s.Devices.Reset,
		s.Subscription.Reset,
	} {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
