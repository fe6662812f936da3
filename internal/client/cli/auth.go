package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/oauth"
	"github.com/dmitrijs2005/movieclient/internal/common"
)

// Register prompts for the sign-up form and creates the account. On success
// the user is logged in.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	u, err := a.auth.Register(ctx, models.Registration{
		Email:           email,
		Username:        username,
		Password:        string(password),
		PasswordConfirm: string(confirm),
	})
	if err != nil {
		return a.fail(err)
	}
	a.say("auth.login_success", u.Username)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, models.Credentials{Username: username, Password: string(password)})
	if err != nil {
		return a.fail(err)
	}
	a.say("auth.login_success", u.Username)
	return nil
}

// OAuth runs social login: it prints the provider URL and waits for the
// browser to hit the loopback callback.
func (a *App) OAuth(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: oauth <kakao|google>")
		return nil
	}
	provider, err := models.ParseOAuthProvider(args[0])
	if err != nil {
		return a.fail(err)
	}
	if a.isLoggedIn() {
		a.say("auth.login_success", a.stores.Session.User().Username)
		return nil
	}

	target, err := a.auth.OAuthURL(provider)
	if err != nil {
		return a.fail(err)
	}

	l, err := oauth.Listen(a.config.OAuthCallbackAddr, a.log)
	if err != nil {
		return a.fail(err)
	}
	defer l.Close()

	u, err := url.Parse(target)
	if err != nil {
		return a.fail(err)
	}
	q := u.Query()
	q.Set("redirect_uri", l.CallbackURL())
	u.RawQuery = q.Encode()
	a.say("auth.oauth_open", u.String())

	cb, err := l.Wait(ctx)
	if err != nil {
		var oe *oauth.OAuthError
		if errors.As(err, &oe) {
			a.say("auth.oauth_failed", oe.Description)
			return err
		}
		return a.fail(err)
	}

	user, err := a.auth.CompleteOAuth(ctx, cb)
	if err != nil {
		return a.fail(err)
	}
	a.say("auth.login_success", user.Username)
	return nil
}

// Logout ends the session. Local state is cleared even when the server
// call fails.
func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.auth.Logout(ctx)
	if err != nil {
		a.log.Warn(ctx, "logout", "error", err)
	}
	a.say("auth.logout_success")
	return err
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	u := a.stores.Session.User()
	if u == nil {
		a.say("auth.login_required")
		return nil
	}
	provider := string(u.OAuthProvider)
	if provider == "" {
		provider = "local"
	}
	a.println(fmt.Sprintf("%s <%s> id=%s login=%s", u.Username, u.Email, u.ID, provider))
	return nil
}
