// Package services contains the application services of the movie client:
// authentication, device management and subscriptions. Services call the
// API through client.Client and keep the state containers in sync.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/movieclient/internal/client/client"
	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/oauth"
	"github.com/dmitrijs2005/movieclient/internal/client/state"
	"github.com/dmitrijs2005/movieclient/internal/common"
	"github.com/dmitrijs2005/movieclient/internal/logging"
)

// AuthService drives the session state machine (loggedOut <-> loggedIn).
type AuthService interface {
	// Login and Register return ErrBusy while another of them is running.
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	// CompleteOAuth finishes social login. It is a no-op when a user is
	// already logged in.
	CompleteOAuth(ctx context.Context, cb *oauth.Callback) (*models.User, error)
	OAuthURL(provider models.OAuthProvider) (string, error)
	// Logout always clears local state; the remote error, if any, is returned.
	Logout(ctx context.Context) error
	// Restore is the startup probe. It ends the session's loading state.
	Restore(ctx context.Context) error
}

type authService struct {
	client     client.Client
	stores     *state.Stores
	log        logging.Logger
	loggingIn  atomic.Bool
	loggingOut atomic.Bool
}

func NewAuthService(c client.Client, stores *state.Stores, log logging.Logger) AuthService {
	return &authService{client: c, stores: stores, log: log.With("component", "auth")}
}

func (a *authService) fail(err error) error {
	a.stores.Session.SetErr(err.Error())
	return err
}

// adopt makes u the session user. The device and subscription mirrors belong
// to the previous user and are dropped unless u is that same user.
func (a *authService) adopt(ctx context.Context, u *models.User) error {
	if prev := a.stores.Session.User(); prev == nil || prev.ID != u.ID {
		if err := a.stores.Devices.Reset(ctx); err != nil {
			return err
		}
		if err := a.stores.Subscription.Reset(ctx); err != nil {
			return err
		}
	}
	return a.stores.Session.SetUser(ctx, u)
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}
	if !a.loggingIn.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.loggingIn.Store(false)

	return a.login(ctx, creds)
}

func (a *authService) login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	sess := a.stores.Session
	sess.SetLoading(true)
	defer sess.SetLoading(false)

	if _, err := a.client.Login(ctx, creds); err != nil {
		return nil, a.fail(fmt.Errorf("login error: %w", err))
	}

	u, err := a.client.CurrentUser(ctx)
	if err != nil {
		if cerr := a.stores.Credentials.Clear(ctx); cerr != nil {
			a.log.Error(ctx, "clear tokens after failed login", "error", cerr)
		}
		return nil, a.fail(fmt.Errorf("login error: fetch user: %w", err))
	}

	if err := a.adopt(ctx, u); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "logged in", "user_id", u.ID)
	return u, nil
}

func (a *authService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if err := ValidateRegistration(reg); err != nil {
		return nil, err
	}
	if !a.loggingIn.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.loggingIn.Store(false)

	if _, err := a.client.Register(ctx, reg); err != nil {
		return nil, a.fail(fmt.Errorf("register error: %w", err))
	}
	a.log.Info(ctx, "registered", "username", reg.Username)

	return a.login(ctx, models.Credentials{Username: reg.Username, Password: reg.Password})
}

func (a *authService) CompleteOAuth(ctx context.Context, cb *oauth.Callback) (*models.User, error) {
	if u := a.stores.Session.User(); u != nil {
		return u, nil
	}
	if cb == nil {
		return nil, a.fail(oauth.ErrMissingUserInfo)
	}

	if err := a.stores.Credentials.Save(ctx, cb.Tokens); err != nil {
		return nil, err
	}
	u := cb.User
	if err := a.adopt(ctx, &u); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "logged in via oauth", "user_id", u.ID, "provider", u.OAuthProvider)
	return &u, nil
}

func (a *authService) OAuthURL(provider models.OAuthProvider) (string, error) {
	if provider == models.OAuthProviderNone {
		return "", fmt.Errorf("%w: provider is required", ErrValidation)
	}
	return a.client.OAuthURL(provider), nil
}

func (a *authService) Logout(ctx context.Context) (err error) {
	if !a.loggingOut.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer a.loggingOut.Store(false)

	defer func() {
		if rerr := a.stores.ResetUserState(context.WithoutCancel(ctx)); rerr != nil {
			a.log.Error(ctx, "clear local state on logout", "error", rerr)
			if err == nil {
				err = rerr
			}
		}
	}()

	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "remote logout failed", "error", err)
		return fmt.Errorf("logout error: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Restore(ctx context.Context) error {
	sess := a.stores.Session
	sess.SetLoading(true)
	defer sess.SetLoading(false)

	has, err := a.stores.Credentials.HasAny(ctx)
	if errors.Is(err, common.ErrCorruptedValue) {
		a.log.Warn(ctx, "stored credentials unreadable, starting logged out", "error", err)
		return a.stores.ResetUserState(ctx)
	}
	if err != nil {
		return err
	}
	if !has {
		return sess.Clear(ctx)
	}

	u, err := a.client.CurrentUser(ctx)
	if err != nil {
		if cerr := sess.Clear(ctx); cerr != nil {
			a.log.Error(ctx, "clear session", "error", cerr)
		}
		return a.fail(fmt.Errorf("restore session: %w", err))
	}
	return a.adopt(ctx, u)
}

func currentUserID(s *state.Stores) (string, error) {
	u := s.Session.User()
	if u == nil || !s.Session.IsAuthenticated() {
		return "", ErrNotLoggedIn
	}
	return u.ID, nil
}
