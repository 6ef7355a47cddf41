// Package parcours implements CRUD over parcour definitions.
package parcours

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/repo"
)

type Service struct {
	parcours repo.ParcourRepository
}

// Payload is the client-supplied body of a parcour create or update.
type Payload struct {
	ID   string
	Name string
	Data json.RawMessage
}

func New(parcourRepo repo.ParcourRepository) *Service {
	if parcourRepo == nil {
		return nil
	}
	return &Service{parcours: parcourRepo}
}

func (s *Service) List(ctx context.Context) ([]domain.Parcour, error) {
	return s.parcours.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Parcour, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Parcour{}, domain.NewBadRequest("parcour_id_required", "parcour id is required")
	}
	parcour, err := s.parcours.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Parcour{}, domain.NewNotFound("parcour", id)
		}
		return domain.Parcour{}, err
	}
	return parcour, nil
}

// Create stores a new parcour owned by the authenticated user. An
// empty payload id gets a generated one.
func (s *Service) Create(ctx context.Context, userID string, payload *Payload) (domain.Parcour, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Parcour{}, domain.NewUnauthorized("authentication required to create a parcour")
	}
	if payload == nil {
		return domain.Parcour{}, domain.NewBadRequest("payload_required", "parcour payload is required")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return domain.Parcour{}, domain.NewBadRequest("name_required", "parcour name is required")
	}

	id := strings.TrimSpace(payload.ID)
	if id == "" {
		id = uuid.NewString()
	}

	parcour := domain.Parcour{
		ID:     id,
		Name:   strings.TrimSpace(payload.Name),
		Data:   payload.Data,
		UserID: userID,
	}
	affected, err := s.parcours.Add(ctx, parcour)
	if err != nil {
		return domain.Parcour{}, fmt.Errorf("add parcour: %w", err)
	}
	if affected == 0 {
		return domain.Parcour{}, fmt.Errorf("add parcour %q: %w", id, repo.ErrConflict)
	}

	return s.parcours.GetByID(ctx, id)
}

// Update replaces name and data of an existing parcour. The body id,
// when present, must match the path.
func (s *Service) Update(ctx context.Context, id string, payload *Payload) (domain.Parcour, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Parcour{}, domain.NewBadRequest("parcour_id_required", "parcour id is required")
	}
	if payload == nil {
		return domain.Parcour{}, domain.NewBadRequest("payload_required", "parcour payload is required")
	}
	if payload.ID != "" && payload.ID != id {
		return domain.Parcour{}, domain.NewBadRequest("parcour_mismatch", "payload id does not match the request path")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return domain.Parcour{}, domain.NewBadRequest("name_required", "parcour name is required")
	}

	parcour := domain.Parcour{
		ID:   id,
		Name: strings.TrimSpace(payload.Name),
		Data: payload.Data,
	}
	affected, err := s.parcours.Update(ctx, parcour)
	if err != nil {
		return domain.Parcour{}, fmt.Errorf("update parcour %q: %w", id, err)
	}
	if affected == 0 {
		return domain.Parcour{}, domain.NewNotFound("parcour", id)
	}

	return s.parcours.GetByID(ctx, id)
}

// Delete removes a parcour. Runs referencing it stay as they are.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewBadRequest("parcour_id_required", "parcour id is required")
	}
	if err := s.parcours.RemoveByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.NewNotFound("parcour", id)
		}
		return fmt.Errorf("delete parcour %q: %w", id, err)
	}
	return nil
}
