// Package client talks to the movie service REST API.
//
// HTTPClient attaches "Authorization: Bearer <access>" from a TokenStore to
// every request. When a request comes back 401 it refreshes the token pair
// through POST /auth/refresh and resends the request exactly once.
// Concurrent 401s share a single refresh. If there is no refresh token, or
// the refresh fails, the tokens are cleared and the Navigator is asked to
// send the user to the login screen.
//
// Transport failures are reported as ErrUnavailable; non-2xx responses as
// *HTTPError, which matches ErrUnauthorized and common.ErrNotFound with
// errors.Is.
//
// The package also bootstraps the local SQLite database (InitDatabase,
// RunMigrations).
package client
