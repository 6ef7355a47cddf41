package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/repo"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	if db == nil {
		return nil
	}
	return &UserStore{db: db}
}

const selectUsersQuery = `SELECT id, nickname, sub, created_on, updated_on
	FROM users
	ORDER BY created_on`

const selectUserByIDQuery = `SELECT id, nickname, sub, created_on, updated_on
	FROM users
	WHERE id = $1`

const selectUserBySubQuery = `SELECT id, nickname, sub, created_on, updated_on
	FROM users
	WHERE sub = $1`

// insertUserQuery tolerates a racing first-sight insert of the same
// subject: the loser affects zero rows instead of failing the request.
const insertUserQuery = `INSERT INTO users (id, nickname, sub, created_on, updated_on)
	VALUES ($1, $2, $3, $4, $4)
	ON CONFLICT (sub) DO NOTHING`

func (s *UserStore) GetAll(ctx context.Context) ([]domain.User, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("user store not initialized")
	}
	rows, err := s.db.QueryContext(ctx, selectUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Nickname, &user.Sub, &user.CreatedOn, &user.UpdatedOn); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s == nil || s.db == nil {
		return domain.User{}, fmt.Errorf("user store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, fmt.Errorf("user id is required")
	}
	var user domain.User
	row := s.db.QueryRowContext(ctx, selectUserByIDQuery, id)
	if err := row.Scan(&user.ID, &user.Nickname, &user.Sub, &user.CreatedOn, &user.UpdatedOn); err != nil {
		return domain.User{}, handleNotFound(err)
	}
	return user, nil
}

func (s *UserStore) GetBySub(ctx context.Context, sub string) (domain.User, error) {
	if s == nil || s.db == nil {
		return domain.User{}, fmt.Errorf("user store not initialized")
	}
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return domain.User{}, fmt.Errorf("user sub is required")
	}
	var user domain.User
	row := s.db.QueryRowContext(ctx, selectUserBySubQuery, sub)
	if err := row.Scan(&user.ID, &user.Nickname, &user.Sub, &user.CreatedOn, &user.UpdatedOn); err != nil {
		return domain.User{}, handleNotFound(err)
	}
	return user, nil
}

func (s *UserStore) Add(ctx context.Context, user domain.User) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("user store not initialized")
	}
	if err := user.Validate(); err != nil {
		return err
	}
	nickname := strings.TrimSpace(user.Nickname)
	if nickname == "" {
		nickname = domain.DefaultNickname
	}
	result, err := s.db.ExecContext(
		ctx,
		insertUserQuery,
		strings.TrimSpace(user.ID),
		nickname,
		strings.TrimSpace(user.Sub),
		now(),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", handleConflict(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if affected == 0 {
		return repo.ErrConflict
	}
	return nil
}
