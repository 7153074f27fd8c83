package api

import (
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/service"
)

// UsersHandler handles user endpoints.
type UsersHandler struct {
	Users *service.UserService
}

// List handles GET /users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		jsonError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, r, model.ErrEmptyPayload)
		return
	}

	user, err := h.Users.CreateUser(r.Context(), &req)
	if err != nil {
		jsonError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "User added successfully.",
		"user":    user,
	})
}
