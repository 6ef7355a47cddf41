package main

import (
	"net/http"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/platform/auth"
)

type userJSON struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Sub      string `json:"sub,omitempty"`
}

func toUserJSON(user domain.User) userJSON {
	return userJSON{
		ID:       user.ID,
		Nickname: user.Nickname,
		Sub:      user.Sub,
	}
}

func (api *parcoursAPI) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.users == nil {
		api.writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", "user store unavailable")
		return
	}

	users, err := api.users.GetAll(r.Context())
	if err != nil {
		api.writeServiceError(w, r, err)
		return
	}

	out := make([]userJSON, 0, len(users))
	for _, user := range users {
		out = append(out, toUserJSON(user))
	}
	api.writeJSON(w, http.StatusOK, out)
}

func (api *parcoursAPI) handleWhoami(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.writeError(w, r, http.StatusUnauthorized, "unauthorized", "no authenticated user")
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"nickname": user.Nickname,
	})
}
