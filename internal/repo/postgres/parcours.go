package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/parcour-labs/parcour-go/internal/domain"
)

type ParcourStore struct {
	db DB
}

func NewParcourStore(db DB) *ParcourStore {
	if db == nil {
		return nil
	}
	return &ParcourStore{db: db}
}

const parcourExistsQuery = `SELECT EXISTS (SELECT 1 FROM parcours WHERE id = $1)`

const selectParcoursQuery = `SELECT p.id, p.name, p.data, p.created_on, p.updated_on, u.id, u.nickname
	FROM parcours p
	LEFT JOIN users u ON p.user_id = u.id
	ORDER BY p.updated_on DESC`

const selectParcourByIDQuery = `SELECT p.id, p.name, p.data, p.created_on, p.updated_on, u.id, u.nickname
	FROM parcours p
	LEFT JOIN users u ON p.user_id = u.id
	WHERE p.id = $1`

const insertParcourQuery = `INSERT INTO parcours (id, name, data, user_id, created_on, updated_on)
	VALUES ($1, $2, $3, $4, $5, $5)`

const updateParcourQuery = `UPDATE parcours
	SET name = $2, data = $3, updated_on = $4
	WHERE id = $1`

const deleteParcourQuery = `DELETE FROM parcours WHERE id = $1`

// Exists is the cheap existence probe consulted before run mutations.
// It stays separate from GetByID so the precondition never pays for a
// full document fetch.
func (s *ParcourStore) Exists(ctx context.Context, id string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("parcour store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("parcour id is required")
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, parcourExistsQuery, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("parcour exists: %w", err)
	}
	return exists, nil
}

func (s *ParcourStore) GetAll(ctx context.Context) ([]domain.Parcour, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("parcour store not initialized")
	}
	rows, err := s.db.QueryContext(ctx, selectParcoursQuery)
	if err != nil {
		return nil, fmt.Errorf("list parcours: %w", err)
	}
	defer rows.Close()

	parcours := make([]domain.Parcour, 0)
	for rows.Next() {
		parcour, err := scanParcour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan parcour: %w", err)
		}
		parcours = append(parcours, parcour)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parcours: %w", err)
	}
	return parcours, nil
}

func (s *ParcourStore) GetByID(ctx context.Context, id string) (domain.Parcour, error) {
	if s == nil || s.db == nil {
		return domain.Parcour{}, fmt.Errorf("parcour store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Parcour{}, fmt.Errorf("parcour id is required")
	}
	row := s.db.QueryRowContext(ctx, selectParcourByIDQuery, id)
	parcour, err := scanParcour(row)
	if err != nil {
		return domain.Parcour{}, handleNotFound(err)
	}
	return parcour, nil
}

func (s *ParcourStore) Add(ctx context.Context, parcour domain.Parcour) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("parcour store not initialized")
	}
	if err := parcour.Validate(); err != nil {
		return 0, err
	}
	data := parcour.Data
	if len(data) == 0 {
		data = []byte("{}")
	}
	result, err := s.db.ExecContext(
		ctx,
		insertParcourQuery,
		strings.TrimSpace(parcour.ID),
		strings.TrimSpace(parcour.Name),
		[]byte(data),
		strings.TrimSpace(parcour.UserID),
		now(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert parcour: %w", handleConflict(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert parcour: %w", err)
	}
	return affected, nil
}

func (s *ParcourStore) Update(ctx context.Context, parcour domain.Parcour) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("parcour store not initialized")
	}
	if err := parcour.Validate(); err != nil {
		return 0, err
	}
	data := parcour.Data
	if len(data) == 0 {
		data = []byte("{}")
	}
	result, err := s.db.ExecContext(
		ctx,
		updateParcourQuery,
		strings.TrimSpace(parcour.ID),
		strings.TrimSpace(parcour.Name),
		[]byte(data),
		now(),
	)
	if err != nil {
		return 0, fmt.Errorf("update parcour: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update parcour: %w", err)
	}
	return affected, nil
}

// RemoveByID deletes a parcour. Runs referencing it are left in place;
// there is no cascade and no referential guard.
func (s *ParcourStore) RemoveByID(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("parcour store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("parcour id is required")
	}
	result, err := s.db.ExecContext(ctx, deleteParcourQuery, id)
	if err != nil {
		return fmt.Errorf("delete parcour: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete parcour: %w", err)
	}
	if affected == 0 {
		return handleNotFound(sql.ErrNoRows)
	}
	return nil
}

func scanParcour(row rowScanner) (domain.Parcour, error) {
	var parcour domain.Parcour
	var data []byte
	var userID, userNickname sql.NullString
	if err := row.Scan(&parcour.ID, &parcour.Name, &data, &parcour.CreatedOn, &parcour.UpdatedOn, &userID, &userNickname); err != nil {
		return domain.Parcour{}, err
	}
	parcour.Data = data
	if userID.Valid {
		parcour.UserID = userID.String
	}
	if userNickname.Valid {
		parcour.UserNickname = userNickname.String
	}
	parcour.CreatedOn = parcour.CreatedOn.UTC()
	parcour.UpdatedOn = parcour.UpdatedOn.UTC()
	return parcour, nil
}
