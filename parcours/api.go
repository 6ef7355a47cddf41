package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/platform/auth"
	"github.com/parcour-labs/parcour-go/internal/repo"
	parcoursvc "github.com/parcour-labs/parcour-go/internal/service/parcours"
	runsvc "github.com/parcour-labs/parcour-go/internal/service/runs"
)

type parcoursAPI struct {
	logger   *slog.Logger
	parcours *parcoursvc.Service
	runs     *runsvc.Service
	users    repo.UserRepository
}

func newParcoursAPI(logger *slog.Logger, parcours *parcoursvc.Service, runs *runsvc.Service, users repo.UserRepository) *parcoursAPI {
	return &parcoursAPI{
		logger:   logger,
		parcours: parcours,
		runs:     runs,
		users:    users,
	}
}

func (api *parcoursAPI) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /parcours", api.handleListParcours)
	mux.HandleFunc("GET /parcours/{parcour_id}", api.handleGetParcour)
	mux.HandleFunc("POST /parcours", api.handleCreateParcour)
	mux.HandleFunc("PUT /parcours/{parcour_id}", api.handleUpdateParcour)
	mux.HandleFunc("DELETE /parcours/{parcour_id}", api.handleDeleteParcour)

	mux.HandleFunc("GET /parcours/{parcour_id}/runs", api.handleListRuns)
	mux.HandleFunc("POST /parcours/{parcour_id}/runs", api.handleCreateRun)
	mux.HandleFunc("PUT /parcours/{parcour_id}/runs/{run_id}", api.handleUpdateRun)

	mux.HandleFunc("GET /users", api.handleListUsers)
	mux.HandleFunc("GET /users/whoami", api.handleWhoami)
}

func (api *parcoursAPI) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func (api *parcoursAPI) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	api.writeJSON(w, status, map[string]any{
		"message":    message,
		"error":      code,
		"request_id": r.Header.Get("X-Request-Id"),
	})
}

// writeServiceError maps a typed domain error onto its HTTP status;
// anything else is an opaque 500.
func (api *parcoursAPI) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		api.writeError(w, r, derr.Status, derr.Code, derr.Message)
		return
	}
	if api.logger != nil {
		api.logger.Error("request failed",
			"request_id", r.Header.Get("X-Request-Id"),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	api.writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return errors.New("multiple JSON values")
	}
	return nil
}

// callerUserID returns the resolved user's id, or nil for anonymous
// requests.
func callerUserID(r *http.Request) *string {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || strings.TrimSpace(user.ID) == "" {
		return nil
	}
	id := user.ID
	return &id
}

func auditInfo(r *http.Request) runsvc.AuditInfo {
	actor := "anonymous"
	if user, ok := auth.UserFromContext(r.Context()); ok && user.ID != "" {
		actor = user.ID
	}

	var ip net.IP
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = net.ParseIP(host)
	}

	return runsvc.AuditInfo{
		Actor:     actor,
		RequestID: r.Header.Get("X-Request-Id"),
		UserAgent: r.UserAgent(),
		IP:        ip,
	}
}
