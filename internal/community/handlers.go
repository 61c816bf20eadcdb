package community

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mcanlodge/internal/api"
	"mcanlodge/internal/audit"
	"mcanlodge/internal/events"
	"mcanlodge/pkg/db"
)

type Handlers struct {
	DB          *pgxpool.Pool
	Communities *Repository
}

type CreateRequest struct {
	Name        string `json:"name" validate:"required,min=3"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	c, err := h.Communities.Create(r.Context(), u.ID, req.Name, req.Description, req.Category)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to create community")
		return
	}
	api.WriteJSON(w, http.StatusCreated, c)
}

// ListPublic returns approved communities only; pending and rejected ones are
// never publicly visible.
func (h Handlers) ListPublic(w http.ResponseWriter, r *http.Request) {
	items, err := h.Communities.ListApproved(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}
	items, err := h.Communities.ListByCreator(r.Context(), u.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := h.Communities.ListPending(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type DecisionRequest struct {
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

func (h Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusApproved)
}

func (h Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusRejected)
}

func (h Handlers) decide(w http.ResponseWriter, r *http.Request, decision Status) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "missing id")
		return
	}

	var req DecisionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if decision == StatusRejected && strings.TrimSpace(req.Reason) == "" {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "a rejection reason is required")
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		c, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}

		if err := Decide(c.Status, decision); err != nil {
			api.WriteError(w, http.StatusConflict, api.CodeConflict, err.Error())
			return pgx.ErrTxCommitRollback
		}

		if err := SetDecision(r.Context(), tx, c.ID, decision, u.ID, req.Note, req.Reason); err != nil {
			return err
		}

		now := time.Now()
		meta := map[string]any{"decision": decision, "note": req.Note, "reason": req.Reason}
		if err := audit.Insert(r.Context(), tx, u.ID, "COMMUNITY_REVIEWED", "community", c.ID, meta); err != nil {
			return err
		}
		return events.Insert(r.Context(), tx, "community", c.ID, "REVIEWED", "Community reviewed", string(u.Role), now, meta)
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "community not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Join(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}

	c, err := h.Communities.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "community not found")
		return
	}
	if c.Status != StatusApproved {
		// Unreviewed communities look like they don't exist to non-creators.
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "community not found")
		return
	}

	if err := h.Communities.AddMember(r.Context(), c.ID, u.ID); err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Leave(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}

	c, err := h.Communities.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "community not found")
		return
	}
	if c.CreatorID == u.ID {
		api.WriteError(w, http.StatusConflict, api.CodeConflict, "the creator cannot leave their own community")
		return
	}

	if err := h.Communities.RemoveMember(r.Context(), c.ID, u.ID); err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
