package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/movieclient/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"

	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// sealedToken is what gets encrypted and stored for each token.
type sealedToken struct {
	Value  string    `json:"value"`
	Expiry time.Time `json:"expiry"`
}

// CredentialStore keeps the access/refresh token pair, sealed at rest.
type CredentialStore struct {
	repo       kv.Repository
	sealer     *cryptox.Sealer
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewCredentialStore(repo kv.Repository, sealer *cryptox.Sealer, accessTTL, refreshTTL time.Duration) *CredentialStore {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &CredentialStore{
		repo:       repo,
		sealer:     sealer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *CredentialStore) read(ctx context.Context, key string) (*sealedToken, error) {
	raw, err := s.repo.Get(ctx, nsAuth, key)
	if err != nil || raw == nil {
		return nil, err
	}
	plain, err := s.sealer.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	var t sealedToken
	if err := json.Unmarshal(plain, &t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &t, nil
}

// AccessToken returns the stored access token, or nil when there is none
// or it has expired.
func (s *CredentialStore) AccessToken(ctx context.Context) (*oauth2.Token, error) {
	t, err := s.read(ctx, accessTokenKey)
	if err != nil || t == nil {
		return nil, err
	}
	if !t.Expiry.After(s.now()) {
		return nil, nil
	}
	return &oauth2.Token{AccessToken: t.Value, TokenType: "Bearer", Expiry: t.Expiry}, nil
}

// RefreshToken returns "" when no live refresh token is stored.
func (s *CredentialStore) RefreshToken(ctx context.Context) (string, error) {
	t, err := s.read(ctx, refreshTokenKey)
	if err != nil || t == nil {
		return "", err
	}
	if !t.Expiry.After(s.now()) {
		return "", nil
	}
	return t.Value, nil
}

// HasAny reports whether either token is present.
func (s *CredentialStore) HasAny(ctx context.Context) (bool, error) {
	at, err := s.AccessToken(ctx)
	if err != nil {
		return false, err
	}
	if at != nil {
		return true, nil
	}
	rt, err := s.RefreshToken(ctx)
	return rt != "", err
}

// accessExpiry prefers the JWT exp claim, when present and in the future.
func (s *CredentialStore) accessExpiry(raw string) time.Time {
	now := s.now()
	fallback := now.Add(s.accessTTL)

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return fallback
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		return fallback
	}
	return claims.ExpiresAt.Time
}

func (s *CredentialStore) entry(key, value string, expiry time.Time) (kv.Entry, error) {
	plain, err := json.Marshal(sealedToken{Value: value, Expiry: expiry})
	if err != nil {
		return kv.Entry{}, err
	}
	return kv.Entry{Key: key, Value: s.sealer.Seal(plain), ExpiresAt: expiry}, nil
}

// Save stores both tokens in one write.
func (s *CredentialStore) Save(ctx context.Context, pair models.TokenPair) error {
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return errors.New("token pair is incomplete")
	}

	access, err := s.entry(accessTokenKey, pair.AccessToken, s.accessExpiry(pair.AccessToken))
	if err != nil {
		return err
	}
	refresh, err := s.entry(refreshTokenKey, pair.RefreshToken, s.now().Add(s.refreshTTL))
	if err != nil {
		return err
	}
	return s.repo.SetMany(ctx, nsAuth, []kv.Entry{access, refresh})
}

// Clear removes both tokens.
func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, nsAuth, accessTokenKey, refreshTokenKey)
}
