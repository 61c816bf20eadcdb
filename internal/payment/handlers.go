package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"mcanlodge/internal/api"
	"mcanlodge/internal/audit"
	"mcanlodge/internal/booking"
	"mcanlodge/internal/events"
	"mcanlodge/internal/receipt"
	"mcanlodge/pkg/config"
	"mcanlodge/pkg/db"
)

type Handlers struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Payments *Repository
	Bookings *booking.Repository
	Logger   *slog.Logger
}

// ConfigDetails returns the organization's payment channels so members know
// where to send money before submitting a claim.
func (h Handlers) ConfigDetails(w http.ResponseWriter, r *http.Request) {
	org := h.Cfg.Org
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"orgName":       org.Name,
		"bankName":      org.BankName,
		"accountName":   org.AccountName,
		"accountNumber": org.AccountNumber,
		"momoNumber":    org.MomoNumber,
		"supportEmail":  org.SupportEmail,
	})
}

type SubmitRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid4"`
	Amount    string `json:"amount" validate:"required"`
	Month     int    `json:"month" validate:"required,min=1,max=12"`
	Year      int    `json:"year" validate:"required,min=2020,max=2100"`
	Method    string `json:"method" validate:"required"`
	Reference string `json:"reference"`
}

func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid json")
		return
	}
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	method, err := ParseMethod(req.Method)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "method must be bank_transfer, mobile_money or cash")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "amount must be a positive amount")
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), req.BookingID)
	if err != nil || b.UserID != u.ID {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "booking not found")
		return
	}

	p, err := h.Payments.Insert(r.Context(), u.ID, b.ID, amount.StringFixed(2), req.Month, req.Year, method, strings.TrimSpace(req.Reference))
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to record payment")
		return
	}
	api.WriteJSON(w, http.StatusCreated, p)
}

func (h Handlers) MyPayments(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}
	items, err := h.Payments.ListByUser(r.Context(), u.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := h.Payments.ListPending(r.Context())
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
	note := req.Note
	if decision == StatusRejected {
		if strings.TrimSpace(req.Reason) == "" {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "a rejection reason is required")
			return
		}
		note = req.Reason
	}

	var approvedID string
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		p, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}

		if err := Decide(p.Status, decision); err != nil {
			api.WriteError(w, http.StatusConflict, api.CodeConflict, err.Error())
			return pgx.ErrTxCommitRollback
		}

		serial := ""
		if decision == StatusApproved {
			serial = NewReceiptSerial(p.Year)
			approvedID = p.ID
		}
		if err := SetDecision(r.Context(), tx, p.ID, decision, u.ID, note, serial); err != nil {
			return err
		}

		now := time.Now()
		meta := map[string]any{"decision": decision, "note": note, "receiptSerial": serial}
		if err := audit.Insert(r.Context(), tx, u.ID, "PAYMENT_REVIEWED", "payment", p.ID, meta); err != nil {
			return err
		}
		return events.Insert(r.Context(), tx, "payment", p.ID, "REVIEWED", "Payment reviewed", string(u.Role), now, meta)
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "payment not found")
		return
	}

	// Receipt rendering rides outside the decision tx: a render failure must
	// not undo the approval. Download regenerates missing files.
	if approvedID != "" {
		if _, err := h.renderReceipt(r, approvedID); err != nil {
			h.Logger.Error("receipt render failed", "payment", approvedID, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) renderReceipt(r *http.Request, paymentID string) (string, error) {
	d, err := h.Payments.GetReceiptDetail(r.Context(), paymentID)
	if err != nil {
		return "", err
	}
	data, err := h.receiptData(d)
	if err != nil {
		return "", err
	}
	path, err := receipt.WriteFile(h.Cfg.ReceiptsDir, data)
	if err != nil {
		return "", err
	}
	if err := h.Payments.SetReceiptPath(r.Context(), paymentID, path); err != nil {
		return "", err
	}
	return path, nil
}

func (h Handlers) receiptData(d *ReceiptDetail) (receipt.Data, error) {
	amount, err := decimal.NewFromString(d.Payment.Amount)
	if err != nil {
		return receipt.Data{}, err
	}
	approvedAt := time.Now()
	if d.Payment.DecidedAt != nil {
		approvedAt = *d.Payment.DecidedAt
	}
	return receipt.Data{
		OrgName:       h.Cfg.Org.Name,
		OrgShortCode:  h.Cfg.Org.ShortCode,
		SupportEmail:  h.Cfg.Org.SupportEmail,
		Serial:        d.Payment.ReceiptSerial,
		PaymentID:     d.Payment.ID,
		PayerName:     d.PayerName,
		PayerEmail:    d.PayerEmail,
		BookingRef:    d.BookingRef,
		Month:         time.Month(d.Payment.Month),
		Year:          d.Payment.Year,
		Method:        string(d.Payment.Method),
		Reference:     d.Payment.Reference,
		Amount:        amount,
		ApprovedAt:    approvedAt,
		VerifiedBy:    d.VerifierEmail,
		VerifyBaseURL: h.Cfg.Org.PublicBaseURL,
	}, nil
}

// Receipt streams the PDF for an approved payment, re-rendering it if the
// file has gone missing from disk.
func (h Handlers) Receipt(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing user identity")
		return
	}

	p, err := h.Payments.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "payment not found")
		return
	}
	if p.UserID != u.ID && !u.IsAdmin() {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "payment not found")
		return
	}
	if p.Status != StatusApproved {
		api.WriteError(w, http.StatusConflict, api.CodeConflict, "payment is not approved")
		return
	}

	path := p.ReceiptPath()
	if path == "" || !fileExists(path) {
		path, err = h.renderReceipt(r, p.ID)
		if err != nil {
			h.Logger.Error("receipt render failed", "payment", p.ID, "error", err)
			api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to render receipt")
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+receipt.Filename(h.Cfg.Org.ShortCode, p.ID)+`"`)
	http.ServeFile(w, r, path)
}

// VerifyReceipt is the public endpoint behind the receipt QR code.
func (h Handlers) VerifyReceipt(w http.ResponseWriter, r *http.Request) {
	serial := chi.URLParam(r, "serial")
	if serial == "" {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "missing serial")
		return
	}

	p, err := h.Payments.FindBySerial(r.Context(), serial)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "receipt not found")
		return
	}

	approvedAt := time.Time{}
	if p.DecidedAt != nil {
		approvedAt = *p.DecidedAt
	}
	api.WriteJSON(w, http.StatusOK, VerificationSummary{
		Serial:     p.ReceiptSerial,
		OrgName:    h.Cfg.Org.Name,
		Amount:     p.Amount,
		Month:      p.Month,
		Year:       p.Year,
		ApprovedAt: approvedAt,
	})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
