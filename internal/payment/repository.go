package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Payment struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	BookingID     string     `json:"bookingId"`
	Amount        string     `json:"amount"`
	Month         int        `json:"month"`
	Year          int        `json:"year"`
	Method        Method     `json:"method"`
	Reference     string     `json:"reference,omitempty"`
	Status        Status     `json:"status"`
	VerifiedBy    string     `json:"verifiedBy,omitempty"`
	VerifierNote  string     `json:"verifierNote,omitempty"`
	ReceiptSerial string     `json:"receiptSerial,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	receiptPath   string
}

// ReceiptPath is the on-disk path of the rendered PDF, if any. It is not
// serialized to clients.
func (p *Payment) ReceiptPath() string { return p.receiptPath }

const paymentColumns = `
id, user_id, booking_id, amount::text, month, year, method, COALESCE(reference,''), status,
COALESCE(verified_by::text,''), COALESCE(verifier_note,''), COALESCE(receipt_serial,''),
COALESCE(receipt_path,''), created_at, decided_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	if err := row.Scan(
		&p.ID, &p.UserID, &p.BookingID, &p.Amount, &p.Month, &p.Year, &p.Method, &p.Reference,
		&p.Status, &p.VerifiedBy, &p.VerifierNote, &p.ReceiptSerial, &p.receiptPath,
		&p.CreatedAt, &p.DecidedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, userID, bookingID, amount string, month, year int, method Method, reference string) (*Payment, error) {
	const q = `
INSERT INTO payment_verifications (user_id, booking_id, amount, month, year, method, reference, status)
VALUES ($1, $2, $3::numeric, $4, $5, $6, NULLIF($7,''), 'pending')
RETURNING ` + paymentColumns + `
`
	return scanPayment(r.db.QueryRow(ctx, q, userID, bookingID, amount, month, year, string(method), reference))
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Payment, error) {
	const q = `
SELECT ` + paymentColumns + `
FROM payment_verifications
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *Repository) ListPending(ctx context.Context) ([]Payment, error) {
	const q = `
SELECT ` + paymentColumns + `
FROM payment_verifications
WHERE status = 'pending'
ORDER BY created_at ASC
`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Payment, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Payment, error) {
	const q = `
SELECT ` + paymentColumns + `
FROM payment_verifications
WHERE id = $1
`
	return scanPayment(r.db.QueryRow(ctx, q, id))
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Payment, error) {
	const q = `
SELECT ` + paymentColumns + `
FROM payment_verifications
WHERE id = $1
FOR UPDATE
`
	return scanPayment(tx.QueryRow(ctx, q, id))
}

func SetDecision(ctx context.Context, tx pgx.Tx, id string, decision Status, verifierID, note, receiptSerial string) error {
	const q = `
UPDATE payment_verifications
SET status = $2,
    verified_by = $3::uuid,
    verifier_note = NULLIF($4,''),
    receipt_serial = NULLIF($5,''),
    decided_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, string(decision), verifierID, note, receiptSerial)
	return err
}

func (r *Repository) SetReceiptPath(ctx context.Context, id, path string) error {
	const q = `UPDATE payment_verifications SET receipt_path = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id, path)
	return err
}

// NewReceiptSerial mints a receipt serial like RCP-2026-4F9A21C3. The year
// prefix keeps serials human-sortable; the random suffix is backed by the
// unique index on receipt_serial.
func NewReceiptSerial(year int) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RCP-%d-%s", year, suffix)
}

// ReceiptDetail joins everything the PDF needs for one approved payment.
type ReceiptDetail struct {
	Payment       Payment
	PayerName     string
	PayerEmail    string
	VerifierEmail string
	BookingRef    string
}

func (r *Repository) GetReceiptDetail(ctx context.Context, id string) (*ReceiptDetail, error) {
	const q = `
SELECT p.id, p.user_id, p.booking_id, p.amount::text, p.month, p.year, p.method, COALESCE(p.reference,''),
       p.status, COALESCE(p.verified_by::text,''), COALESCE(p.verifier_note,''), COALESCE(p.receipt_serial,''),
       COALESCE(p.receipt_path,''), p.created_at, p.decided_at,
       u.name, u.email, COALESCE(v.email,''), a.name
FROM payment_verifications p
JOIN users u ON u.id = p.user_id
LEFT JOIN users v ON v.id = p.verified_by
JOIN bookings b ON b.id = p.booking_id
JOIN accommodations a ON a.id = b.accommodation_id
WHERE p.id = $1
`
	var d ReceiptDetail
	p := &d.Payment
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.UserID, &p.BookingID, &p.Amount, &p.Month, &p.Year, &p.Method, &p.Reference,
		&p.Status, &p.VerifiedBy, &p.VerifierNote, &p.ReceiptSerial, &p.receiptPath,
		&p.CreatedAt, &p.DecidedAt,
		&d.PayerName, &d.PayerEmail, &d.VerifierEmail, &d.BookingRef,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// VerificationSummary is the public payload behind the receipt QR code.
type VerificationSummary struct {
	Serial     string    `json:"serial"`
	OrgName    string    `json:"orgName"`
	Amount     string    `json:"amount"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	ApprovedAt time.Time `json:"approvedAt"`
}

func (r *Repository) FindBySerial(ctx context.Context, serial string) (*Payment, error) {
	const q = `
SELECT ` + paymentColumns + `
FROM payment_verifications
WHERE receipt_serial = $1 AND status = 'approved'
`
	return scanPayment(r.db.QueryRow(ctx, q, serial))
}
