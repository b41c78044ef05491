package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStaticToken(t *testing.T) {
	tok, err := StaticToken("abc").Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func TestStaticToken_Empty(t *testing.T) {
	_, err := StaticToken("").Token()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOAuth2TokenSource(t *testing.T) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "oauth-token"})

	tok, err := OAuth2TokenSource(src).Token()
	require.NoError(t, err)
	assert.Equal(t, "oauth-token", tok)
}
