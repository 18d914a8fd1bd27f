package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/softwareconstruction240/autograder/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{NetID: "cosmo", FirstName: "Cosmo", Groups: []string{"students"}})
	require.NoError(t, err)

	authURL, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authURL, "/auth/callback?"), authURL)
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, state, u.Query().Get("state"))
	assert.Equal(t, "dev", u.Query().Get("code"))

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "cosmo", id.UserID)
	assert.Equal(t, "cosmo@localhost", id.Email)
	assert.Equal(t, []string{"students"}, id.Groups)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), id.ExpiresAt, time.Minute)
}

func TestProvider_ExchangeRequiresCode(t *testing.T) {
	prov, err := NewProvider(Config{NetID: "cosmo"})
	require.NoError(t, err)

	_, err = prov.Exchange(context.Background(), ports.ExchangeInput{})
	require.Error(t, err)
}

func TestProvider_ExchangeReturnsCopy(t *testing.T) {
	prov, err := NewProvider(Config{NetID: "cosmo", Groups: []string{"students"}})
	require.NoError(t, err)

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
	require.NoError(t, err)
	id.Groups[0] = "instructors"

	again, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
	require.NoError(t, err)
	assert.Equal(t, []string{"students"}, again.Groups)
}

func TestNewProvider_RequiresNetID(t *testing.T) {
	_, err := NewProvider(Config{NetID: "  "})
	require.Error(t, err)
}
