package drive

import (
	"fmt"

	"golang.org/x/oauth2"
)

// StaticToken is a TokenSource returning a fixed bearer token. Useful
// for short-lived tokens obtained out of band and for tests.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", fmt.Errorf("drive: %w: empty token", ErrUnauthorized)
	}

	return string(t), nil
}

// OAuth2TokenSource adapts a golang.org/x/oauth2 TokenSource to this
// package's TokenSource. Refresh, caching, and expiry stay with the
// oauth2 machinery; the engine only ever sees the current access token.
func OAuth2TokenSource(src oauth2.TokenSource) TokenSource {
	return oauthAdapter{src: src}
}

type oauthAdapter struct {
	src oauth2.TokenSource
}

func (a oauthAdapter) Token() (string, error) {
	tok, err := a.src.Token()
	if err != nil {
		return "", fmt.Errorf("drive: obtaining oauth2 token: %w", err)
	}

	return tok.AccessToken, nil
}
