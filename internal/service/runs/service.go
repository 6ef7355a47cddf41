package runs

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/platform/auditlog"
	"github.com/parcour-labs/parcour-go/internal/platform/metrics"
	"github.com/parcour-labs/parcour-go/internal/repo"
)

type Service struct {
	runs     repo.RunRepository
	parcours repo.ParcourRepository
	audit    auditlog.QueryRower
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// AuditInfo identifies the caller for audit purposes.
type AuditInfo struct {
	Actor     string
	RequestID string
	UserAgent string
	IP        net.IP
}

// UpdatePayload is the client-supplied body of a run update. Pointer
// fields distinguish absent from zero.
type UpdatePayload struct {
	ParcourID string
	UserID    *string
	StartedOn *time.Time
	EndedOn   *time.Time
	Outcome   *domain.RunOutcome
}

func New(runRepo repo.RunRepository, parcourRepo repo.ParcourRepository, logger *slog.Logger) *Service {
	if runRepo == nil || parcourRepo == nil {
		return nil
	}
	return &Service{
		runs:     runRepo,
		parcours: parcourRepo,
		logger:   logger,
	}
}

// WithAudit enables best-effort audit events on creates and
// transitions.
func (s *Service) WithAudit(q auditlog.QueryRower) *Service {
	s.audit = q
	return s
}

// WithMetrics enables run lifecycle counters.
func (s *Service) WithMetrics(m metrics.Recorder) *Service {
	s.metrics = m
	return s
}

// List returns up to the 100 most recently updated runs of a parcour.
func (s *Service) List(ctx context.Context, parcourID string) ([]domain.Run, error) {
	if err := s.requireParcour(ctx, parcourID); err != nil {
		return nil, err
	}
	return s.runs.GetByParcourID(ctx, parcourID)
}

// Create persists a new pending run and returns it along with its
// canonical resource location.
func (s *Service) Create(ctx context.Context, info AuditInfo, parcourID string, userID *string) (domain.Run, string, error) {
	if err := s.requireParcour(ctx, parcourID); err != nil {
		return domain.Run{}, "", err
	}

	run := domain.Run{
		ID:        uuid.NewString(),
		ParcourID: parcourID,
		UserID:    userID,
		Outcome:   domain.OutcomePending,
	}
	affected, err := s.runs.Add(ctx, run)
	if err != nil {
		return domain.Run{}, "", fmt.Errorf("add run: %w", err)
	}
	if affected == 0 {
		return domain.Run{}, "", fmt.Errorf("add run %q: %w", run.ID, repo.ErrConflict)
	}

	stored, err := s.runs.GetByID(ctx, run.ID)
	if err != nil {
		return domain.Run{}, "", fmt.Errorf("read back run %q: %w", run.ID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordRunCreated()
	}
	s.appendAudit(ctx, info, "run.created", stored)

	location := fmt.Sprintf("/parcours/%s/runs/%s", parcourID, stored.ID)
	return stored, location, nil
}

// Update moves a pending run to a terminal outcome. Validation short-
// circuits on the first failure; only a fully valid payload reaches
// the store.
func (s *Service) Update(ctx context.Context, info AuditInfo, parcourID, runID string, userID *string, payload *UpdatePayload) (domain.Run, error) {
	if strings.TrimSpace(parcourID) == "" {
		return domain.Run{}, domain.NewBadRequest("parcour_id_required", "parcour id is required")
	}
	if strings.TrimSpace(runID) == "" {
		return domain.Run{}, domain.NewBadRequest("run_id_required", "run id is required")
	}
	if payload == nil {
		return domain.Run{}, domain.NewBadRequest("payload_required", "run payload is required")
	}
	if payload.ParcourID != parcourID {
		return domain.Run{}, domain.NewBadRequest("parcour_mismatch", "payload parcourId does not match the request path")
	}
	if err := checkOwnership(payload.UserID, userID); err != nil {
		return domain.Run{}, err
	}
	if payload.StartedOn == nil {
		return domain.Run{}, domain.NewBadRequest("started_on_required", "startedOn is required")
	}
	if payload.EndedOn == nil {
		return domain.Run{}, domain.NewBadRequest("ended_on_required", "endedOn is required")
	}
	if payload.Outcome == nil {
		return domain.Run{}, domain.NewBadRequest("outcome_required", "outcome is required")
	}
	if !payload.Outcome.Terminal() {
		return domain.Run{}, domain.NewBadRequest("outcome_not_terminal", "outcome must move the run to a terminal state")
	}
	if payload.EndedOn.Before(*payload.StartedOn) {
		return domain.Run{}, domain.NewBadRequest("invalid_interval", "endedOn must not precede startedOn")
	}

	run := domain.Run{
		ID:        runID,
		ParcourID: parcourID,
		UserID:    userID,
		StartedOn: payload.StartedOn,
		EndedOn:   payload.EndedOn,
		Outcome:   *payload.Outcome,
	}
	affected, err := s.runs.Update(ctx, run)
	if err != nil {
		return domain.Run{}, fmt.Errorf("update run %q: %w", runID, err)
	}
	if affected == 0 {
		// The store cannot tell an already-closed run from mismatched
		// identifiers; the ambiguity is surfaced as a generic conflict.
		if s.metrics != nil {
			s.metrics.RecordRunUpdateConflict()
		}
		return domain.Run{}, fmt.Errorf("update run %q: %w", runID, repo.ErrConflict)
	}

	stored, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return domain.Run{}, fmt.Errorf("read back run %q: %w", runID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordRunOutcome(stored.Outcome.String())
	}
	s.appendAudit(ctx, info, "run."+stored.Outcome.String(), stored)

	return stored, nil
}

func (s *Service) requireParcour(ctx context.Context, parcourID string) error {
	if strings.TrimSpace(parcourID) == "" {
		return domain.NewBadRequest("parcour_id_required", "parcour id is required")
	}
	exists, err := s.parcours.Exists(ctx, parcourID)
	if err != nil {
		return fmt.Errorf("check parcour %q: %w", parcourID, err)
	}
	if !exists {
		return domain.NewNotFound("parcour", parcourID)
	}
	return nil
}

// checkOwnership requires the payload's user to match the caller:
// anonymous payloads need anonymous callers and vice versa.
func checkOwnership(payloadUser, caller *string) error {
	switch {
	case payloadUser == nil && caller == nil:
		return nil
	case payloadUser == nil || caller == nil:
		return domain.NewBadRequest("user_mismatch", "payload userId does not match the authenticated user")
	case *payloadUser != *caller:
		return domain.NewBadRequest("user_mismatch", "payload userId does not match the authenticated user")
	}
	return nil
}

func (s *Service) appendAudit(ctx context.Context, info AuditInfo, action string, run domain.Run) {
	if s.audit == nil {
		return
	}
	actor := strings.TrimSpace(info.Actor)
	if actor == "" {
		actor = "anonymous"
	}
	payload := map[string]any{
		"parcour_id": run.ParcourID,
		"run_id":     run.ID,
		"outcome":    run.Outcome.String(),
	}
	if _, err := auditlog.Insert(ctx, s.audit, auditlog.Event{
		Actor:        actor,
		Action:       action,
		ResourceType: "run",
		ResourceID:   run.ID,
		RequestID:    info.RequestID,
		IP:           info.IP,
		UserAgent:    info.UserAgent,
		Payload:      payload,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit append failed", "action", action, "run_id", run.ID, "error", err)
	}
}
