package order

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
	"mcanlodge/internal/product"
	"mcanlodge/pkg/db"
)

type Handlers struct {
	DB     *pgxpool.Pool
	Orders *Repository
}

type CreateRequest struct {
	Lines           []CartLine `json:"lines" validate:"required,min=1,dive"`
	ShippingAddress string     `json:"shippingAddress" validate:"required,min=5"`
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
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	var created *Order
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		ids := make([]string, 0, len(req.Lines))
		for _, l := range req.Lines {
			ids = append(ids, l.ProductID)
		}
		prices, err := product.PriceLookup(r.Context(), tx, ids)
		if err != nil {
			return err
		}

		priced, total, err := PriceCart(req.Lines, prices)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
			return pgx.ErrTxCommitRollback
		}

		created, err = Insert(r.Context(), tx, u.ID, NewOrderNumber(), req.ShippingAddress, total.StringFixed(2), priced)
		if err != nil {
			return err
		}

		return events.Insert(r.Context(), tx, "order", created.ID, "ORDER_PLACED",
			"Order placed", string(u.Role), time.Now(),
			map[string]any{"orderNumber": created.OrderNumber, "total": created.Total})
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}

func (h Handlers) MyOrders(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}
	items, err := h.Orders.ListByUser(r.Context(), u.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Orders.ListAll(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}
	o, err := h.Orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "order not found")
		return
	}
	if o.UserID != u.ID && !u.IsAdmin() {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "order not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, o)
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
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

	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid json")
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid status")
		return
	}

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		o, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		return h.applyTransition(w, r, tx, o, next, u.ID, string(u.Role))
	})
	h.finishMutation(w, err)
}

// Cancel is allowed for the owner while the order is still pending; admins can
// cancel any non-terminal order.
func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
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

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		o, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if o.UserID != u.ID && !u.IsAdmin() {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "order not found")
			return pgx.ErrTxCommitRollback
		}
		if !u.IsAdmin() && o.Status != StatusPending {
			api.WriteError(w, http.StatusConflict, api.CodeConflict, "order is already being processed")
			return pgx.ErrTxCommitRollback
		}
		return h.applyTransition(w, r, tx, o, StatusCancelled, u.ID, string(u.Role))
	})
	h.finishMutation(w, err)
}

func (h Handlers) MarkPaid(w http.ResponseWriter, r *http.Request) {
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

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		o, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if o.PaymentStatus == PaymentPaid {
			api.WriteError(w, http.StatusConflict, api.CodeConflict, "order already paid")
			return pgx.ErrTxCommitRollback
		}
		if o.Status == StatusCancelled {
			api.WriteError(w, http.StatusConflict, api.CodeConflict, "order is cancelled")
			return pgx.ErrTxCommitRollback
		}
		if err := MarkPaid(r.Context(), tx, o.ID); err != nil {
			return err
		}
		now := time.Now()
		meta := map[string]any{"orderNumber": o.OrderNumber}
		if err := audit.Insert(r.Context(), tx, u.ID, "ORDER_MARKED_PAID", "order", o.ID, meta); err != nil {
			return err
		}
		return events.Insert(r.Context(), tx, "order", o.ID, "PAYMENT_RECEIVED", "Payment received", string(u.Role), now, meta)
	})
	h.finishMutation(w, err)
}

func (h Handlers) applyTransition(w http.ResponseWriter, r *http.Request, tx pgx.Tx, o *Order, next Status, actorID, actorRole string) error {
	if err := Transition(o.Status, next); err != nil {
		api.WriteError(w, http.StatusConflict, api.CodeInvalidTransition, err.Error())
		return pgx.ErrTxCommitRollback
	}
	if err := UpdateStatus(r.Context(), tx, o.ID, next); err != nil {
		return err
	}

	now := time.Now()
	meta := map[string]any{"from": o.Status, "to": next, "orderNumber": o.OrderNumber}
	if err := audit.Insert(r.Context(), tx, actorID, "ORDER_STATUS_CHANGED", "order", o.ID, meta); err != nil {
		return err
	}
	return events.Insert(r.Context(), tx, "order", o.ID, "STATUS_CHANGED", "Status changed", actorRole, now, meta)
}

func (h Handlers) finishMutation(w http.ResponseWriter, err error) {
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
