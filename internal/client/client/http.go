package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/buildinfo"
	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/common"
	"github.com/dmitrijs2005/movieclient/internal/logging"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 15 * time.Second
	refreshPath    = "/auth/refresh"
	maxBodySize    = 4 << 20
)

// TokenStore is the credential storage the client reads and rotates.
type TokenStore interface {
	AccessToken(ctx context.Context) (*oauth2.Token, error)
	RefreshToken(ctx context.Context) (string, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}

// Navigator is told when the session is gone and the user must log in again.
type Navigator interface {
	RedirectToLogin(ctx context.Context, reason error)
}

type nopNavigator struct{}

func (nopNavigator) RedirectToLogin(context.Context, error) {}

// Request describes one API call. Body is sent as JSON, Form as
// application/x-www-form-urlencoded; at most one should be set.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   url.Values
	// NoRefresh returns a 401 as-is instead of refreshing, e.g. for login.
	NoRefresh bool
}

// HTTPClient talks to the REST API. It attaches the bearer token, and on a
// 401 refreshes the token pair once and resends the request once.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	nav     Navigator
	log     logging.Logger
	limiter *rate.Limiter
	timeout time.Duration
	headers map[string]func() string

	refreshGroup singleflight.Group
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *HTTPClient) {
		if n != nil {
			c.nav = n
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRateLimit paces outgoing requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *HTTPClient) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		} else {
			c.limiter = nil
		}
	}
}

// WithTimeout bounds every single round trip, including the refresh call.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHeader adds a header whose value is computed per request. Empty
// values are not sent.
func WithHeader(name string, value func() string) Option {
	return func(c *HTTPClient) { c.headers[name] = value }
}

func WithDeviceID(id string) Option {
	return WithHeader(common.DeviceIDHeaderName, func() string { return id })
}

func New(baseURL string, tokens TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    cleanhttp.DefaultPooledClient(),
		tokens:  tokens,
		nav:     nopNavigator{},
		log:     logging.Nop(),
		timeout: DefaultTimeout,
		headers: map[string]func() string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) BaseURL() string { return c.baseURL }

type response struct {
	status int
	body   []byte
}

func (c *HTTPClient) newHTTPRequest(ctx context.Context, req Request, tok *oauth2.Token) (*http.Request, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	hr, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	hr.Header.Set("Accept", "application/json")
	hr.Header.Set("User-Agent", buildinfo.UserAgent())
	if contentType != "" {
		hr.Header.Set("Content-Type", contentType)
	}
	for name, fn := range c.headers {
		if v := fn(); v != "" {
			hr.Header.Set(name, v)
		}
	}
	if tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(hr)
	}
	return hr, nil
}

// roundTrip sends req once with tok.
func (c *HTTPClient) roundTrip(ctx context.Context, req Request, tok *oauth2.Token) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	hr, err := c.newHTTPRequest(ctx, req, tok)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(hr)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.mapError(ctx, err)
	}

	c.log.Debug(ctx, "api call", "method", hr.Method, "path", req.Path, "status", resp.StatusCode)
	return &response{status: resp.StatusCode, body: body}, nil
}

// mapError turns transport failures into ErrUnavailable. Cancellation by
// the caller is reported as-is.
func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: request timed out: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (c *HTTPClient) currentToken(ctx context.Context) (*oauth2.Token, error) {
	if c.tokens == nil {
		return nil, nil
	}
	tok, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}
	return tok, nil
}

// Do performs req and decodes a 2xx JSON body into out (if non-nil).
// A 401 triggers at most one refresh and one resend.
func (c *HTTPClient) Do(ctx context.Context, req Request, out any) error {
	tok, err := c.currentToken(ctx)
	if err != nil {
		return err
	}

	resp, err := c.roundTrip(ctx, req, tok)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && !req.NoRefresh {
		fresh, err := c.refresh(ctx, tok, &HTTPError{Status: resp.status, Body: resp.body})
		if err != nil {
			return err
		}
		// the resend is final: a second 401 is returned to the caller
		resp, err = c.roundTrip(ctx, req, fresh)
		if err != nil {
			return err
		}
	}

	return decode(resp, out)
}

func decode(resp *response, out any) error {
	if resp.status < 200 || resp.status > 299 {
		return &HTTPError{Status: resp.status, Body: resp.body}
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func tokenValue(t *oauth2.Token) string {
	if t == nil {
		return ""
	}
	return t.AccessToken
}

// refresh returns a token to resend with. stale is the token the failed
// request carried. Concurrent callers share one refresh call.
func (c *HTTPClient) refresh(ctx context.Context, stale *oauth2.Token, cause *HTTPError) (*oauth2.Token, error) {
	if c.tokens == nil {
		return nil, cause
	}

	rotated := func(ctx context.Context) (*oauth2.Token, error) {
		cur, err := c.currentToken(ctx)
		if err != nil {
			return nil, err
		}
		if cur != nil && cur.AccessToken != tokenValue(stale) {
			return cur, nil
		}
		return nil, nil
	}

	if cur, err := rotated(ctx); err != nil || cur != nil {
		return cur, err
	}

	v, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		// one caller's cancellation must not fail the others
		ctx := context.WithoutCancel(ctx)

		if cur, err := rotated(ctx); err != nil || cur != nil {
			return cur, err
		}
		return c.refreshTokens(ctx, cause)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug(ctx, "joined in-flight token refresh")
	}
	return v.(*oauth2.Token), nil
}

func (c *HTTPClient) refreshTokens(ctx context.Context, cause *HTTPError) (*oauth2.Token, error) {
	rt, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}
	if rt == "" {
		c.log.Info(ctx, "session expired, no refresh token")
		c.nav.RedirectToLogin(ctx, ErrNoRefreshToken)
		return nil, fmt.Errorf("%w: %w", ErrNoRefreshToken, cause)
	}

	var pair models.TokenPair
	err = c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      refreshPath,
		Body:      map[string]string{"refresh_token": rt},
		NoRefresh: true,
	}, &pair)
	if err == nil && (pair.AccessToken == "" || pair.RefreshToken == "") {
		err = errors.New("incomplete token pair in response")
	}
	if err != nil {
		c.log.Warn(ctx, "token refresh failed, logging out", "error", err)
		if cerr := c.tokens.Clear(ctx); cerr != nil {
			c.log.Error(ctx, "clear tokens", "error", cerr)
		}
		c.nav.RedirectToLogin(ctx, err)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	if err := c.tokens.Save(ctx, pair); err != nil {
		return nil, fmt.Errorf("save refreshed tokens: %w", err)
	}
	c.log.Info(ctx, "access token refreshed")
	return &oauth2.Token{AccessToken: pair.AccessToken, TokenType: "Bearer"}, nil
}
