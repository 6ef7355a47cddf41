// Package identity maps external authentication subjects to internal
// users, creating the user lazily on first sight.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/platform/auth"
	"github.com/parcour-labs/parcour-go/internal/repo"
)

type Resolver struct {
	users  repo.UserRepository
	logger *slog.Logger
}

func NewResolver(users repo.UserRepository, logger *slog.Logger) *Resolver {
	if users == nil {
		return nil
	}
	return &Resolver{users: users, logger: logger}
}

// Resolve returns the internal user for an external subject. Unknown
// subjects get a fresh user with the default nickname. A concurrent
// create racing on the same subject loses the insert and re-reads the
// winner, so every subject converges on one user.
func (r *Resolver) Resolve(ctx context.Context, ident auth.Identity) (auth.User, error) {
	if r == nil || r.users == nil {
		return auth.User{}, errors.New("identity resolver is not configured")
	}
	sub := strings.TrimSpace(ident.Subject)
	if sub == "" {
		return auth.User{}, domain.NewBadRequest("invalid_subject", "authentication subject is empty")
	}

	user, err := r.users.GetBySub(ctx, sub)
	if err == nil {
		return auth.User{ID: user.ID, Nickname: user.Nickname}, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return auth.User{}, err
	}

	created := domain.User{
		ID:       uuid.NewString(),
		Nickname: domain.DefaultNickname,
		Sub:      sub,
	}
	if err := r.users.Add(ctx, created); err != nil {
		if !errors.Is(err, repo.ErrConflict) {
			return auth.User{}, err
		}
		// Lost the race, the subject now exists.
		user, err := r.users.GetBySub(ctx, sub)
		if err != nil {
			return auth.User{}, err
		}
		return auth.User{ID: user.ID, Nickname: user.Nickname}, nil
	}

	if r.logger != nil {
		r.logger.Info("user created", "user_id", created.ID)
	}
	return auth.User{ID: created.ID, Nickname: created.Nickname}, nil
}
