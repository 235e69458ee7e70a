package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/wicaksana/paket-portal/internal/domain/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	token, u, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		writeError(w, r, http.StatusBadGateway, "failed to reach the backend", nil)
		return
	}

	writeJSON(w, r, http.StatusOK, envelope{Data: loginResponse{
		Token: token,
		User:  toUserView(u),
	}})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if u, err := h.sessions.Resolve(token); err == nil {
			h.carts.Drop(u.ID)
		}
		h.sessions.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func toUserView(u user.User) userView {
	return userView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}
