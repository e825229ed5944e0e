package httpexec

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oktakit/oktahttp/config"
)

func TestSSWSAuthenticator(t *testing.T) {
	request := NewRequest(http.MethodGet, "/")

	require.NoError(t, NewSSWSAuthenticator("00abc").Authenticate(request))
	assert.Equal(t, "SSWS 00abc", request.Headers.Get(HeaderAuthorization))

	t.Run("empty token", func(t *testing.T) {
		err := NewSSWSAuthenticator("").Authenticate(NewRequest(http.MethodGet, "/"))
		assert.Error(t, err)
	})
}

func TestBearerAuthenticator(t *testing.T) {
	request := NewRequest(http.MethodGet, "/")

	require.NoError(t, NewBearerAuthenticator("eyJh").Authenticate(request))
	assert.Equal(t, "Bearer eyJh", request.Headers.Get(HeaderAuthorization))

	t.Run("empty token", func(t *testing.T) {
		err := NewBearerAuthenticator("").Authenticate(NewRequest(http.MethodGet, "/"))
		assert.Error(t, err)
	})
}

func TestNoopAuthenticator(t *testing.T) {
	request := NewRequest(http.MethodGet, "/")

	require.NoError(t, (&NoopAuthenticator{}).Authenticate(request))
	assert.Equal(t, 0, request.Headers.Len())
}

func TestNewRequestAuthenticator(t *testing.T) {
	t.Run("ssws by default", func(t *testing.T) {
		a := NewRequestAuthenticator(&config.ClientConfig{Token: "t"})
		assert.IsType(t, &SSWSAuthenticator{}, a)
	})

	t.Run("bearer", func(t *testing.T) {
		a := NewRequestAuthenticator(&config.ClientConfig{AuthScheme: config.SchemeBearer, Token: "t"})
		assert.IsType(t, &BearerAuthenticator{}, a)
	})

	t.Run("none", func(t *testing.T) {
		a := NewRequestAuthenticator(&config.ClientConfig{AuthScheme: config.SchemeNone})
		assert.IsType(t, &NoopAuthenticator{}, a)
	})
}
