package main

import (
	"net/http"
	"time"

	"github.com/parcour-labs/parcour-go/internal/domain"
	runsvc "github.com/parcour-labs/parcour-go/internal/service/runs"
)

// runJSON is the wire form of a run. Outcome travels as an integer;
// userId and the timestamps are nullable.
type runJSON struct {
	ID        string     `json:"id"`
	ParcourID string     `json:"parcourId"`
	UserID    *string    `json:"userId"`
	StartedOn *time.Time `json:"startedOn"`
	EndedOn   *time.Time `json:"endedOn"`
	Outcome   int        `json:"outcome"`
}

func toRunJSON(run domain.Run) runJSON {
	return runJSON{
		ID:        run.ID,
		ParcourID: run.ParcourID,
		UserID:    run.UserID,
		StartedOn: run.StartedOn,
		EndedOn:   run.EndedOn,
		Outcome:   int(run.Outcome),
	}
}

type runUpdateRequest struct {
	ID        string     `json:"id"`
	ParcourID string     `json:"parcourId"`
	UserID    *string    `json:"userId"`
	StartedOn *time.Time `json:"startedOn"`
	EndedOn   *time.Time `json:"endedOn"`
	Outcome   *int       `json:"outcome"`
}

func (api *parcoursAPI) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.runs == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "run service unavailable")
		return
	}

	runs, err := api.runs.List(r.Context(), r.PathValue("parcour_id"))
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunJSON(run))
	}
	api.writeJSON(w, http.StatusOK, out)
}

func (api *parcoursAPI) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.runs == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "run service unavailable")
		return
	}

	run, location, err := api.runs.Create(r.Context(), auditInfo(r), r.PathValue("parcour_id"), callerUserID(r))
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", location)
	api.writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "run created",
		"run":     toRunJSON(run),
	})
}

func (api *parcoursAPI) handleUpdateRun(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.runs == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "run service unavailable")
		return
	}

	var req runUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return
	}

	runID := r.PathValue("run_id")
	if req.ID != "" && req.ID != runID {
		api.writeError(w, r, http.StatusBadRequest, "run_mismatch", "payload id does not match the request path")
		return
	}

	payload := &runsvc.UpdatePayload{
		ParcourID: req.ParcourID,
		UserID:    req.UserID,
		StartedOn: req.StartedOn,
		EndedOn:   req.EndedOn,
	}
	if req.Outcome != nil {
		outcome := domain.RunOutcome(*req.Outcome)
		payload.Outcome = &outcome
	}

	run, err := api.runs.Update(
		r.Context(),
		auditInfo(r),
		r.PathValue("parcour_id"),
		runID,
		callerUserID(r),
		payload,
	)
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	api.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "run updated",
		"run":     toRunJSON(run),
	})
}
