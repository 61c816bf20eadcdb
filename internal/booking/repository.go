package booking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Booking struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	AccommodationID string    `json:"accommodationId"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	Guests          int       `json:"guests"`
	Status          Status    `json:"status"`
	TotalAmount     string    `json:"totalAmount"`
	DecidedBy       string    `json:"decidedBy,omitempty"`
	DecisionNote    string    `json:"decisionNote,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

const bookingColumns = `
id, user_id, accommodation_id, check_in, check_out, guests, status, total_amount::text,
COALESCE(decided_by::text,''), COALESCE(decision_note,''), created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.UserID, &b.AccommodationID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.Status,
		&b.TotalAmount, &b.DecidedBy, &b.DecisionNote, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	const q = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]Booking, error) {
	const q = `
SELECT ` + bookingColumns + `
FROM bookings
ORDER BY created_at DESC
`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	const q = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1
`
	return scanBooking(r.db.QueryRow(ctx, q, id))
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Booking, error) {
	const q = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1
FOR UPDATE
`
	return scanBooking(tx.QueryRow(ctx, q, id))
}

// HasOverlappingActive reports whether any non-terminal booking for the
// accommodation overlaps [checkIn, checkOut). Callers must hold the
// accommodation row lock so two racing creates serialize on this check.
func HasOverlappingActive(ctx context.Context, tx pgx.Tx, accommodationID string, checkIn, checkOut time.Time) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1
  FROM bookings
  WHERE accommodation_id = $1
    AND status IN ('pending','approved')
    AND check_in < $3
    AND check_out > $2
)
`
	var exists bool
	if err := tx.QueryRow(ctx, q, accommodationID, checkIn, checkOut).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func Insert(ctx context.Context, tx pgx.Tx, userID, accommodationID string, checkIn, checkOut time.Time, guests int, totalAmount string) (*Booking, error) {
	const q = `
INSERT INTO bookings (user_id, accommodation_id, check_in, check_out, guests, status, total_amount)
VALUES ($1, $2, $3, $4, $5, 'pending', $6::numeric)
RETURNING ` + bookingColumns + `
`
	return scanBooking(tx.QueryRow(ctx, q, userID, accommodationID, checkIn, checkOut, guests, totalAmount))
}

func UpdateStatus(ctx context.Context, tx pgx.Tx, id string, next Status, decidedBy, note string) error {
	const q = `
UPDATE bookings
SET status = $2,
    decided_by = NULLIF($3,'')::uuid,
    decision_note = NULLIF($4,''),
    updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, string(next), decidedBy, note)
	return err
}
