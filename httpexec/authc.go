package httpexec

import (
	"github.com/oktakit/oktahttp/config"
)

// RequestAuthenticator mutates a request with credentials before it goes
// on the wire. Credential resolution and signing schemes beyond header
// injection live outside this layer.
type RequestAuthenticator interface {
	Authenticate(request *Request) error
}

// NewRequestAuthenticator picks the authenticator for the configured scheme
func NewRequestAuthenticator(cfg *config.ClientConfig) RequestAuthenticator {
	switch cfg.AuthScheme {
	case config.SchemeBearer:
		return &BearerAuthenticator{token: cfg.Token}
	case config.SchemeNone:
		return &NoopAuthenticator{}
	default:
		return &SSWSAuthenticator{token: cfg.Token}
	}
}

// SSWSAuthenticator authenticates with an Okta API token
type SSWSAuthenticator struct {
	token string
}

// NewSSWSAuthenticator creates an SSWS authenticator for the given token
func NewSSWSAuthenticator(token string) *SSWSAuthenticator {
	return &SSWSAuthenticator{token: token}
}

func (a *SSWSAuthenticator) Authenticate(request *Request) error {
	if a.token == "" {
		return NewError("api token is required to authenticate the request", nil, false, KindOther)
	}
	request.Headers.Set(HeaderAuthorization, "SSWS "+a.token)
	return nil
}

// BearerAuthenticator authenticates with an OAuth 2.0 access token
type BearerAuthenticator struct {
	token string
}

// NewBearerAuthenticator creates a bearer authenticator for the given token
func NewBearerAuthenticator(token string) *BearerAuthenticator {
	return &BearerAuthenticator{token: token}
}

func (a *BearerAuthenticator) Authenticate(request *Request) error {
	if a.token == "" {
		return NewError("access token is required to authenticate the request", nil, false, KindOther)
	}
	request.Headers.Set(HeaderAuthorization, "Bearer "+a.token)
	return nil
}

// NoopAuthenticator leaves the request untouched
type NoopAuthenticator struct{}

func (a *NoopAuthenticator) Authenticate(*Request) error {
	return nil
}
