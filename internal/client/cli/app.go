package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/movieclient/internal/client/client"
	"github.com/dmitrijs2005/movieclient/internal/client/config"
	"github.com/dmitrijs2005/movieclient/internal/client/i18n"
	"github.com/dmitrijs2005/movieclient/internal/client/services"
	"github.com/dmitrijs2005/movieclient/internal/client/state"
	"github.com/dmitrijs2005/movieclient/internal/common"
	"github.com/dmitrijs2005/movieclient/internal/cryptox"
	"github.com/dmitrijs2005/movieclient/internal/logging"
)

const credentialsInfo = "movieclient/credentials"

type App struct {
	config  *config.Config
	log     logging.Logger
	stores  *state.Stores
	auth    services.AuthService
	devices services.DeviceService
	subs    services.SubscriptionService
	catalog *i18n.Catalog
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp builds the application graph from c. The returned App must be
// closed.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(
		logging.WithLevel(logging.ParseLevel(c.LogLevel)),
		logging.WithFormat(logging.Format(c.LogFormat)),
	)
	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	repo, closeRepo, err := openRepository(ctx, c, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRepo)

	secret, err := cryptox.LoadOrCreateSecret(c.SecretPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load secret: %w", err)
	}
	sealer, err := cryptox.NewSealer(secret, credentialsInfo)
	common.WipeByteArray(secret)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.stores, err = state.Open(ctx, repo, sealer, state.Options{
		AccessTokenTTL:  c.AccessTokenTTL,
		RefreshTokenTTL: c.RefreshTokenTTL,
		DefaultLocale:   c.Locale(),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open local state: %w", err)
	}

	a.catalog, err = i18n.Load()
	if err != nil {
		a.Close()
		return nil, err
	}

	locale := a.stores.Locale
	api := client.New(c.ServerBaseURL, a.stores.Credentials,
		client.WithLogger(log),
		client.WithNavigator(a),
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RequestsPerSecond),
		client.WithDeviceID(a.stores.InstallationID),
		client.WithHeader(common.AcceptLanguageHeaderName, func() string { return string(locale.Get()) }),
	)

	a.auth = services.NewAuthService(api, a.stores, log)
	a.devices = services.NewDeviceService(api, a.stores, log)
	a.subs = services.NewSubscriptionService(api, a.stores, log)
	return a, nil
}

// Close releases the local store. It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run restores the previous session and blocks in the REPL until the user
// exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Movie client CLI (type 'help' for commands)")
	if err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}
	if u := a.stores.Session.User(); u != nil {
		a.say("auth.login_success", u.Username)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// RedirectToLogin is called by the API client when the session cannot be
// renewed.
func (a *App) RedirectToLogin(ctx context.Context, reason error) {
	a.log.Info(ctx, "session ended", "reason", reason)
	if err := a.stores.ResetUserState(context.WithoutCancel(ctx)); err != nil {
		a.log.Error(ctx, "reset local state", "error", err)
	}
	a.say("auth.session_expired")
}

func (a *App) isLoggedIn() bool {
	return a.stores.Session.IsAuthenticated()
}

func (a *App) status() string {
	u := a.stores.Session.User()
	if u == nil {
		return "(guest)"
	}
	return fmt.Sprintf("(%s %s)", u.Username, a.catalog.TierName(a.stores.Locale.Get(), a.subs.CurrentTier()))
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// say prints a localized message.
func (a *App) say(key string, args ...any) {
	a.println(a.catalog.T(a.stores.Locale.Get(), key, args...))
}

// fail reports err to the user and returns it.
func (a *App) fail(err error) error {
	a.println("error:", err.Error())
	return err
}
