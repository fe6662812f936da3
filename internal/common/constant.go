// Package common contains shared constants and sentinel errors used across
// movieclient components.
package common

// Header names attached to every outbound API request.
const (
	AuthorizationHeaderName  = "Authorization"
	DeviceIDHeaderName       = "X-Device-Id"
	AcceptLanguageHeaderName = "Accept-Language"
)

// Cookie names set by the backend on the OAuth redirect.
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
	UserInfoCookieName     = "user_info"
)
