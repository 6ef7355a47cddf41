package auth

import (
	"context"
	"net/http"
)

// Identity is the externally-verified authentication claim: the token
// subject plus whatever nickname claim the provider exposes. It is not
// yet an internal user.
type Identity struct {
	Subject  string
	Nickname string
}

// User is the resolved internal user the gate attaches to the request
// context. Requests without a credential carry no User at all.
type User struct {
	ID       string
	Nickname string
}

type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (Identity, error)
}

type ctxKeyUser struct{}

func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, user)
}

// UserFromContext returns the resolved user, if the request was
// authenticated. ok is false for anonymous requests.
func UserFromContext(ctx context.Context) (User, bool) {
	v, ok := ctx.Value(ctxKeyUser{}).(User)
	return v, ok
}
