package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodedUserInfo is what the backend sets: urllib.parse.quote(json.dumps(...)).
const encodedUserInfo = "%7B%22id%22%3A%20%22u42%22%2C%20%22email%22%3A%20%22kim%40example.com%22%2C%20%22name%22%3A%20%22%EA%B9%80%22%2C%20%22username%22%3A%20%22%22%2C%20%22oauth_provider%22%3A%20%22kakao%22%7D"

func okCookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: "access_token", Value: "acc"},
		{Name: "refresh_token", Value: "ref"},
		{Name: "user_info", Value: encodedUserInfo},
	}
}

func TestParseCallback_Success(t *testing.T) {
	cb, err := ParseCallback(url.Values{}, okCookies())
	require.NoError(t, err)

	assert.Equal(t, "u42", cb.User.ID)
	assert.Equal(t, "kim@example.com", cb.User.Email)
	assert.Equal(t, "김", cb.User.Username, "name is used when username is empty")
	assert.Equal(t, models.OAuthProviderKakao, cb.User.OAuthProvider)
	assert.Equal(t, "acc", cb.Tokens.AccessToken)
	assert.Equal(t, "ref", cb.Tokens.RefreshToken)
}

func TestParseCallback_ErrorParamWins(t *testing.T) {
	q := url.Values{"error": {"true"}, "error_description": {"%EC%B9%B4%EC%B9%B4%EC%98%A4 %EC%98%A4%EB%A5%98"}}
	_, err := ParseCallback(q, okCookies())

	var oe *OAuthError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "카카오 오류", oe.Description)

	_, err = ParseCallback(url.Values{"error": {"true"}}, nil)
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "social login failed", oe.Description)
}

func TestParseCallback_Missing(t *testing.T) {
	_, err := ParseCallback(url.Values{}, nil)
	require.ErrorIs(t, err, ErrMissingUserInfo)

	_, err = ParseCallback(url.Values{}, []*http.Cookie{{Name: "user_info", Value: encodedUserInfo}})
	require.ErrorIs(t, err, ErrMissingTokens)

	_, err = ParseCallback(url.Values{}, []*http.Cookie{{Name: "user_info", Value: "%7Bnot-json"}})
	require.Error(t, err)
}

func TestListener_DeliversFirstCallback(t *testing.T) {
	l, err := Listen("127.0.0.1:0", logging.Nop())
	require.NoError(t, err)
	defer l.Close()

	req, err := http.NewRequest(http.MethodGet, l.CallbackURL(), nil)
	require.NoError(t, err)
	for _, c := range okCookies() {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cb, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u42", cb.User.ID)
}

func TestListener_ErrorRedirect(t *testing.T) {
	l, err := Listen("127.0.0.1:0", logging.Nop())
	require.NoError(t, err)
	defer l.Close()

	resp, err := http.Get(l.CallbackURL() + "?error=true&error_description=denied")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, err = l.Wait(context.Background())
	var oe *OAuthError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "denied", oe.Description)
}

func TestListener_WaitHonoursContext(t *testing.T) {
	l, err := Listen("127.0.0.1:0", logging.Nop())
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
