// Package oauth completes social login. The backend finishes the provider
// exchange and redirects to the client's callback URL with the tokens and a
// URL-encoded JSON user_info in cookies, or with ?error=...&error_description=...
package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/common"
)

const (
	CallbackPath = "/auth/oauth-callback"

	defaultErrorDescription = "social login failed"
)

var (
	ErrMissingUserInfo = errors.New("oauth callback: user_info cookie missing")
	ErrMissingTokens   = errors.New("oauth callback: token cookies missing")
)

// OAuthError is a provider or backend failure reported on the redirect.
type OAuthError struct {
	Description string
}

func (e *OAuthError) Error() string {
	return "oauth login failed: " + e.Description
}

// Callback is a successful social login.
type Callback struct {
	User   models.User
	Tokens models.TokenPair
}

type userInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	OAuthProvider string `json:"oauth_provider"`
}

func cookieValue(cookies []*http.Cookie, name string) (string, bool) {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// ParseCallback interprets the redirect. An error parameter wins over
// everything else; otherwise user_info and both tokens must be present.
func ParseCallback(q url.Values, cookies []*http.Cookie) (*Callback, error) {
	if q.Has("error") {
		desc := q.Get("error_description")
		if d, err := url.QueryUnescape(desc); err == nil {
			desc = d
		}
		if desc == "" {
			desc = defaultErrorDescription
		}
		return nil, &OAuthError{Description: desc}
	}

	raw, ok := cookieValue(cookies, common.UserInfoCookieName)
	if !ok || raw == "" {
		return nil, ErrMissingUserInfo
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("oauth callback: decode user_info: %w", err)
	}
	var info userInfo
	if err := json.Unmarshal([]byte(decoded), &info); err != nil {
		return nil, fmt.Errorf("oauth callback: parse user_info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("oauth callback: user_info has no id")
	}

	provider, err := models.ParseOAuthProvider(info.OAuthProvider)
	if err != nil {
		return nil, fmt.Errorf("oauth callback: %w", err)
	}

	access, _ := cookieValue(cookies, common.AccessTokenCookieName)
	refresh, _ := cookieValue(cookies, common.RefreshTokenCookieName)
	if access == "" || refresh == "" {
		return nil, ErrMissingTokens
	}

	username := info.Username
	if username == "" {
		username = info.Name
	}

	return &Callback{
		User: models.User{
			ID:            info.ID,
			Email:         info.Email,
			Username:      username,
			IsActive:      true,
			OAuthProvider: provider,
		},
		Tokens: models.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"},
	}, nil
}
