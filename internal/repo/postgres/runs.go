package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/repo"
)

type RunStore struct {
	db DB
}

func NewRunStore(db DB) *RunStore {
	if db == nil {
		return nil
	}
	return &RunStore{db: db}
}

const insertRunQuery = `INSERT INTO runs (id, parcour_id, user_id, started_on, ended_on, outcome, created_on, updated_on)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

const selectRunByIDQuery = `SELECT id, parcour_id, user_id, started_on, ended_on, outcome, created_on, updated_on
	FROM runs
	WHERE id = $1`

const selectRunsByParcourQuery = `SELECT id, parcour_id, user_id, started_on, ended_on, outcome, created_on, updated_on
	FROM runs
	WHERE parcour_id = $1
	ORDER BY updated_on DESC
	LIMIT $2`

// updateRunQuery is the guarded transition write. The predicate only
// matches a row still in the initial pending outcome with the same id,
// user and parcour: under concurrent updates at most one statement
// observes a nonzero affected-row count. The NULL-safe user comparison
// keeps anonymous runs updatable.
const updateRunQuery = `UPDATE runs
	SET started_on = $2, ended_on = $3, outcome = $4, updated_on = $5
	WHERE id = $1
	  AND outcome = 0
	  AND user_id IS NOT DISTINCT FROM $6
	  AND parcour_id = $7`

func (s *RunStore) Add(ctx context.Context, run domain.Run) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("run store not initialized")
	}
	if err := run.Validate(); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(
		ctx,
		insertRunQuery,
		strings.TrimSpace(run.ID),
		strings.TrimSpace(run.ParcourID),
		nullString(run.UserID),
		nullTime(run.StartedOn),
		nullTime(run.EndedOn),
		int(run.Outcome),
		now(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", handleConflict(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return affected, nil
}

func (s *RunStore) GetByID(ctx context.Context, id string) (domain.Run, error) {
	if s == nil || s.db == nil {
		return domain.Run{}, fmt.Errorf("run store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Run{}, fmt.Errorf("run id is required")
	}
	row := s.db.QueryRowContext(ctx, selectRunByIDQuery, id)
	run, err := scanRun(row)
	if err != nil {
		return domain.Run{}, handleNotFound(err)
	}
	return run, nil
}

func (s *RunStore) GetByParcourID(ctx context.Context, parcourID string) ([]domain.Run, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("run store not initialized")
	}
	parcourID = strings.TrimSpace(parcourID)
	if parcourID == "" {
		return nil, fmt.Errorf("parcour id is required")
	}
	rows, err := s.db.QueryContext(ctx, selectRunsByParcourQuery, parcourID, repo.RunListLimit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *RunStore) Update(ctx context.Context, run domain.Run) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("run store not initialized")
	}
	if err := run.Validate(); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(
		ctx,
		updateRunQuery,
		strings.TrimSpace(run.ID),
		nullTime(run.StartedOn),
		nullTime(run.EndedOn),
		int(run.Outcome),
		now(),
		nullString(run.UserID),
		strings.TrimSpace(run.ParcourID),
	)
	if err != nil {
		return 0, fmt.Errorf("update run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update run: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (domain.Run, error) {
	var run domain.Run
	var userID sql.NullString
	var startedOn, endedOn sql.NullTime
	var outcome int
	if err := row.Scan(&run.ID, &run.ParcourID, &userID, &startedOn, &endedOn, &outcome, &run.CreatedOn, &run.UpdatedOn); err != nil {
		return domain.Run{}, err
	}
	run.UserID = fromNullString(userID)
	run.StartedOn = fromNullTime(startedOn)
	run.EndedOn = fromNullTime(endedOn)
	run.Outcome = domain.RunOutcome(outcome)
	run.CreatedOn = run.CreatedOn.UTC()
	run.UpdatedOn = run.UpdatedOn.UTC()
	return run, nil
}
