package main

import (
	"encoding/json"
	"net/http"

	"github.com/parcour-labs/parcour-go/internal/domain"
	parcoursvc "github.com/parcour-labs/parcour-go/internal/service/parcours"
)

type parcourJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Data         json.RawMessage `json:"data"`
	UserID       string          `json:"userId,omitempty"`
	UserNickname string          `json:"userNickname,omitempty"`
}

func toParcourJSON(parcour domain.Parcour) parcourJSON {
	data := parcour.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	return parcourJSON{
		ID:           parcour.ID,
		Name:         parcour.Name,
		Data:         data,
		UserID:       parcour.UserID,
		UserNickname: parcour.UserNickname,
	}
}

type parcourRequest struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

func (api *parcoursAPI) handleListParcours(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.parcours == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "parcour service unavailable")
		return
	}

	parcours, err := api.parcours.List(r.Context())
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	out := make([]parcourJSON, 0, len(parcours))
	for _, parcour := range parcours {
		out = append(out, toParcourJSON(parcour))
	}
	api.writeJSON(w, http.StatusOK, out)
}

func (api *parcoursAPI) handleGetParcour(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.parcours == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "parcour service unavailable")
		return
	}

	parcour, err := api.parcours.Get(r.Context(), r.PathValue("parcour_id"))
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, toParcourJSON(parcour))
}

func (api *parcoursAPI) handleCreateParcour(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.parcours == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "parcour service unavailable")
		return
	}

	userID := callerUserID(r)
	if userID == nil {
		api.writeError(w, r, http.StatusUnauthorized, "unauthorized", "authentication required to create a parcour")
		return
	}

	var req parcourRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return
	}

	parcour, err := api.parcours.Create(r.Context(), *userID, &parcoursvc.Payload{
		ID:   req.ID,
		Name: req.Name,
		Data: req.Data,
	})
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/parcours/"+parcour.ID)
	api.writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "parcour created",
		"parcour": toParcourJSON(parcour),
	})
}

func (api *parcoursAPI) handleUpdateParcour(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.parcours == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "parcour service unavailable")
		return
	}

	if callerUserID(r) == nil {
		api.writeError(w, r, http.StatusUnauthorized, "unauthorized", "authentication required to update a parcour")
		return
	}

	var req parcourRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return
	}

	parcour, err := api.parcours.Update(r.Context(), r.PathValue("parcour_id"), &parcoursvc.Payload{
		ID:   req.ID,
		Name: req.Name,
		Data: req.Data,
	})
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	api.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "parcour updated",
		"parcour": toParcourJSON(parcour),
	})
}

func (api *parcoursAPI) handleDeleteParcour(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.parcours == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "parcour service unavailable")
		return
	}

	if callerUserID(r) == nil {
		api.writeError(w, r, http.StatusUnauthorized, "unauthorized", "authentication required to delete a parcour")
		return
	}

	if err := api.parcours.Delete(r.Context(), r.PathValue("parcour_id")); err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	api.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "parcour deleted",
	})
}
