package repo

import (
	"context"
	"errors"

	"github.com/parcour-labs/parcour-go/internal/domain"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write affects no rows: a duplicate
	// insert, or a guarded update whose predicate no longer matches.
	ErrConflict = errors.New("conflict")
)

// RunListLimit caps how many runs a parcour listing returns.
const RunListLimit = 100

// RunRepository manages run state. Update is a guarded, single-shot
// write: it only matches a row that is still pending with the same id,
// user and parcour, so a run transitions at most once.
type RunRepository interface {
	Add(ctx context.Context, run domain.Run) (int64, error)
	GetByID(ctx context.Context, id string) (domain.Run, error)
	GetByParcourID(ctx context.Context, parcourID string) ([]domain.Run, error)
	Update(ctx context.Context, run domain.Run) (int64, error)
}

// ParcourRepository manages parcour definitions. Exists is the cheap
// precondition consulted before any run mutation.
type ParcourRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetAll(ctx context.Context) ([]domain.Parcour, error)
	GetByID(ctx context.Context, id string) (domain.Parcour, error)
	Add(ctx context.Context, parcour domain.Parcour) (int64, error)
	Update(ctx context.Context, parcour domain.Parcour) (int64, error)
	RemoveByID(ctx context.Context, id string) error
}

// UserRepository manages internal users. Users are only created through
// the identity resolver.
type UserRepository interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetBySub(ctx context.Context, sub string) (domain.User, error)
	Add(ctx context.Context, user domain.User) error
}
