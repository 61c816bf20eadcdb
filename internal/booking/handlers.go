package booking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"mcanlodge/internal/accommodation"
	"mcanlodge/internal/api"
	"mcanlodge/internal/audit"
	"mcanlodge/internal/events"
	"mcanlodge/pkg/db"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	DB       *pgxpool.Pool
	Bookings *Repository
	Rooms    *accommodation.Repository
}

type CreateRequest struct {
	AccommodationID string `json:"accommodationId" validate:"required,uuid4"`
	CheckIn         string `json:"checkIn" validate:"required"`
	CheckOut        string `json:"checkOut" validate:"required"`
	Guests          int    `json:"guests" validate:"required,min=1"`
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
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "checkIn must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "checkOut must be YYYY-MM-DD")
		return
	}
	if !checkOut.After(checkIn) {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "checkOut must be after checkIn")
		return
	}
	today := time.Now().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "checkIn must not be in the past")
		return
	}

	var created *Booking
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		// The accommodation row lock serializes racing creates for the same
		// unit; availability check and insert happen under one lock.
		room, err := accommodation.GetForUpdate(r.Context(), tx, req.AccommodationID)
		if err != nil {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "accommodation not found")
			return pgx.ErrTxCommitRollback
		}
		if !room.IsAvailable {
			api.WriteError(w, http.StatusConflict, api.CodeConflict, "accommodation is not available")
			return pgx.ErrTxCommitRollback
		}
		if req.Guests > room.Capacity {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "guest count exceeds capacity")
			return pgx.ErrTxCommitRollback
		}

		overlap, err := HasOverlappingActive(r.Context(), tx, room.ID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if overlap {
			api.WriteError(w, http.StatusConflict, api.CodeConflict, "accommodation already booked for this date range")
			return pgx.ErrTxCommitRollback
		}

		price, err := decimal.NewFromString(room.PricePerNight)
		if err != nil {
			return err
		}
		nights := int64(checkOut.Sub(checkIn) / (24 * time.Hour))
		total := price.Mul(decimal.NewFromInt(nights)).StringFixed(2)

		created, err = Insert(r.Context(), tx, u.ID, room.ID, checkIn, checkOut, req.Guests, total)
		if err != nil {
			return err
		}

		return events.Insert(r.Context(), tx, "booking", created.ID, "BOOKING_REQUESTED",
			"Booking requested", string(u.Role), time.Now(),
			map[string]any{"checkIn": req.CheckIn, "checkOut": req.CheckOut, "guests": req.Guests})
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

func (h Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}
	items, err := h.Bookings.ListByUser(r.Context(), u.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Bookings.ListAll(r.Context())
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
	b, err := h.Bookings.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "booking not found")
		return
	}
	if b.UserID != u.ID && !u.IsAdmin() {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "booking not found")
		return
	}

	timeline, err := events.ListByEntity(r.Context(), h.DB, "booking", b.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if timeline == nil {
		timeline = []events.Event{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b, "events": timeline})
}

type DecisionRequest struct {
	Note string `json:"note"`
}

func (h Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusApproved, false)
}

func (h Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusRejected, true)
}

func (h Handlers) Complete(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusCompleted, false)
}

// Cancel is allowed for the booking owner as well as admins.
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

	var req DecisionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if b.UserID != u.ID && !u.IsAdmin() {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "booking not found")
			return pgx.ErrTxCommitRollback
		}
		return h.applyTransition(w, r, tx, b, StatusCancelled, u.ID, string(u.Role), req.Note)
	})
	h.finishMutation(w, err)
}

func (h Handlers) decide(w http.ResponseWriter, r *http.Request, next Status, noteRequired bool) {
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
	if noteRequired && req.Note == "" {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "a reason note is required")
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		return h.applyTransition(w, r, tx, b, next, u.ID, string(u.Role), req.Note)
	})
	h.finishMutation(w, err)
}

// applyTransition enforces the lifecycle and keeps the availability flag in
// step with the booking, all inside the caller's transaction.
func (h Handlers) applyTransition(w http.ResponseWriter, r *http.Request, tx pgx.Tx, b *Booking, next Status, actorID, actorRole, note string) error {
	if err := Transition(b.Status, next); err != nil {
		api.WriteError(w, http.StatusConflict, api.CodeInvalidTransition, err.Error())
		return pgx.ErrTxCommitRollback
	}

	// Availability side effects ride the same lock ordering as Create:
	// accommodation row first, then the booking mutation.
	switch {
	case next == StatusApproved:
		if _, err := accommodation.GetForUpdate(r.Context(), tx, b.AccommodationID); err != nil {
			return err
		}
		if err := accommodation.SetAvailability(r.Context(), tx, b.AccommodationID, false); err != nil {
			return err
		}
	case b.Status == StatusApproved && (next == StatusCompleted || next == StatusCancelled):
		if _, err := accommodation.GetForUpdate(r.Context(), tx, b.AccommodationID); err != nil {
			return err
		}
		if err := accommodation.SetAvailability(r.Context(), tx, b.AccommodationID, true); err != nil {
			return err
		}
	}

	if err := UpdateStatus(r.Context(), tx, b.ID, next, actorID, note); err != nil {
		return err
	}

	now := time.Now()
	meta := map[string]any{"from": b.Status, "to": next, "note": note}
	if err := audit.Insert(r.Context(), tx, actorID, "BOOKING_STATUS_CHANGED", "booking", b.ID, meta); err != nil {
		return err
	}
	return events.Insert(r.Context(), tx, "booking", b.ID, "STATUS_CHANGED", "Status changed", actorRole, now, meta)
}

func (h Handlers) finishMutation(w http.ResponseWriter, err error) {
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "booking not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
