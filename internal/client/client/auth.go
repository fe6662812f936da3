package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
)

// Login posts the OAuth2 password form and stores the returned pair.
// A 401 here means bad credentials and is not refreshed.
func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.TokenPair, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	var pair models.TokenPair
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Form: form, NoRefresh: true}, &pair)
	if err != nil {
		return nil, err
	}
	if c.tokens != nil {
		if err := c.tokens.Save(ctx, pair); err != nil {
			return nil, err
		}
	}
	return &pair, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var u models.User
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/users/", Body: reg, NoRefresh: true}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout tells the server and always drops the local tokens.
func (c *HTTPClient) Logout(ctx context.Context) (err error) {
	defer func() {
		if c.tokens == nil {
			return
		}
		if cerr := c.tokens.Clear(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/logout", NoRefresh: true}, nil)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, Request{Path: "/users/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// OAuthURL is the page the user opens in a browser to start social login.
func (c *HTTPClient) OAuthURL(provider models.OAuthProvider) string {
	return c.baseURL + "/oauth/" + url.PathEscape(string(provider))
}
