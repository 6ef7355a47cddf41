package auth

import (
	"context"
	"net/http"
)

// DevAuthenticator authenticates every request as a fixed identity.
// Local development only.
type DevAuthenticator struct {
	identity Identity
}

func NewDevAuthenticator(cfg Config) *DevAuthenticator {
	return &DevAuthenticator{
		identity: Identity{
			Subject:  cfg.DevSubject,
			Nickname: cfg.DevNickname,
		},
	}
}

func (a *DevAuthenticator) Authenticate(ctx context.Context, r *http.Request) (Identity, error) {
	return a.identity, nil
}
