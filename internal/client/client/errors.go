package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/movieclient/internal/common"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrRefreshFailed  = errors.New("token refresh failed")
)

// HTTPError is any non-2xx response.
type HTTPError struct {
	Status int
	Body   []byte
}

// Detail returns the API's {"detail": "..."} message, if any.
func (e *HTTPError) Detail() string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(e.Body, &payload) != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok {
		return s
	}
	return ""
}

func (e *HTTPError) Error() string {
	if d := e.Detail(); d != "" {
		return fmt.Sprintf("http %d: %s", e.Status, d)
	}
	return fmt.Sprintf("http %d %s", e.Status, http.StatusText(e.Status))
}

// Is lets callers match status classes with errors.Is.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case common.ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status == http.StatusBadGateway ||
			e.Status == http.StatusServiceUnavailable ||
			e.Status == http.StatusGatewayTimeout
	}
	return false
}
