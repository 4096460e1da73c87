package common

const (
	// SessionHeaderName carries a freshly issued session token on responses
	// to verified requests.
	SessionHeaderName = "X-Session-Token"

	// BearerPrefix is the scheme prefix of the Authorization header.
	BearerPrefix = "Bearer "
)
