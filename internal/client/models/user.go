// Package models defines the API payloads shared by the client, state and
// service layers.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/movieclient/internal/timex"
)

// OAuthProvider tags users created through social login.
type OAuthProvider string

const (
	OAuthProviderNone   OAuthProvider = ""
	OAuthProviderKakao  OAuthProvider = "kakao"
	OAuthProviderGoogle OAuthProvider = "google"
)

// ParseOAuthProvider normalizes s. An empty string yields OAuthProviderNone.
func ParseOAuthProvider(s string) (OAuthProvider, error) {
	switch p := OAuthProvider(strings.ToLower(strings.TrimSpace(s))); p {
	case OAuthProviderNone, OAuthProviderKakao, OAuthProviderGoogle:
		return p, nil
	default:
		return OAuthProviderNone, fmt.Errorf("unknown oauth provider %q", s)
	}
}

type User struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Username      string        `json:"username"`
	IsActive      bool          `json:"is_active"`
	CreatedAt     timex.Time    `json:"created_at"`
	UpdatedAt     timex.Time    `json:"updated_at,omitzero"`
	ProfileImage  string        `json:"profile_image,omitempty"`
	OAuthProvider OAuthProvider `json:"oauth_provider,omitempty"`
}

// Credentials is the login form.
type Credentials struct {
	Username string
	Password string
}

// Registration is the sign-up form. PasswordConfirm never leaves the client.
type Registration struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"-"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}
