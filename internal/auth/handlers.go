package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mcanlodge/internal/api"
	"mcanlodge/internal/user"
	"mcanlodge/pkg/config"
	"mcanlodge/pkg/token"
)

type Handlers struct {
	Cfg   config.Config
	Users *user.Repository
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
}

func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	if _, err := h.Users.FindByEmail(r.Context(), req.Email); err == nil {
		api.WriteError(w, http.StatusConflict, api.CodeConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}

	u, err := h.Users.Create(r.Context(), req.Email, req.Name, string(hash), user.RoleMember)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to create user")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{"user": u})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	u, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "invalid credentials")
		return
	}

	tok, err := token.Issue(h.Cfg.Auth.JWTSecret, u.ID, u.Email, string(u.Role), h.Cfg.Auth.TokenTTL, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"token": tok, "user": u})
}

// Me returns the authenticated caller's profile.
func (h Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}
