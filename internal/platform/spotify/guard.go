package spotify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Refresher exchanges a refresh token for a fresh credential.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*Credential, error)
}

// Guard wraps token-scoped provider calls with a bounded refresh-and-retry:
// on an expired-token failure it refreshes the credential exactly once and
// retries the call exactly once. A second expiry, or a failed refresh, is an
// authorization failure the user must resolve by re-authenticating; the
// guard never loops.
type Guard struct {
	refresher Refresher
	log       zerolog.Logger

	// serializes credential reads and refreshes so concurrent calls in one
	// request share a single refresh instead of racing the token endpoint.
	mu sync.Mutex
}

func NewGuard(refresher Refresher, log zerolog.Logger) *Guard {
	return &Guard{refresher: refresher, log: log}
}

// Call invokes fn with the credential's current access token. On
// ErrTokenExpired the credential is refreshed in place and fn retried once
// with the new token; any further expiry surfaces as ErrReauthRequired.
func (g *Guard) Call(ctx context.Context, cred *Credential, fn func(accessToken string) error) error {
	token := g.currentToken(cred)

	err := fn(token)
	if !errors.Is(err, ErrTokenExpired) {
		return err
	}

	token, err = g.refreshOnce(ctx, cred, token)
	if err != nil {
		return err
	}

	err = fn(token)
	if errors.Is(err, ErrTokenExpired) {
		return fmt.Errorf("%w: token rejected after refresh", ErrReauthRequired)
	}
	return err
}

func (g *Guard) currentToken(cred *Credential) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return cred.AccessToken
}

func (g *Guard) refreshOnce(ctx context.Context, cred *Credential, stale string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// a sibling call in the same batch may have refreshed already
	if cred.AccessToken != stale {
		return cred.AccessToken, nil
	}

	fresh, err := g.refresher.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}

	g.log.Debug().Msg("credential refreshed after expiry")
	cred.AccessToken = fresh.AccessToken
	cred.ExpiresAt = fresh.ExpiresAt
	if fresh.RefreshToken != "" {
		cred.RefreshToken = fresh.RefreshToken
	}
	return cred.AccessToken, nil
}
