package accommodation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Accommodation struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	PricePerNight string    `json:"pricePerNight"`
	Capacity      int       `json:"capacity"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Accommodation, error) {
	const q = `
SELECT id, name, COALESCE(description,''), COALESCE(location,''), price_per_night::text, capacity, is_available, created_at
FROM accommodations
ORDER BY is_available DESC, name ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Accommodation
	for rows.Next() {
		var a Accommodation
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Location, &a.PricePerNight, &a.Capacity, &a.IsAvailable, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Accommodation, error) {
	const q = `
SELECT id, name, COALESCE(description,''), COALESCE(location,''), price_per_night::text, capacity, is_available, created_at
FROM accommodations
WHERE id = $1
`
	var a Accommodation
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.Description, &a.Location, &a.PricePerNight, &a.Capacity, &a.IsAvailable, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Create(ctx context.Context, name, description, location, pricePerNight string, capacity int) (*Accommodation, error) {
	const q = `
INSERT INTO accommodations (name, description, location, price_per_night, capacity, is_available)
VALUES ($1, $2, $3, $4::numeric, $5, TRUE)
RETURNING id, name, COALESCE(description,''), COALESCE(location,''), price_per_night::text, capacity, is_available, created_at
`
	var a Accommodation
	if err := r.db.QueryRow(ctx, q, name, description, location, pricePerNight, capacity).Scan(
		&a.ID, &a.Name, &a.Description, &a.Location, &a.PricePerNight, &a.Capacity, &a.IsAvailable, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetForUpdate locks the accommodation row for the duration of the caller's
// transaction. Booking mutations take this lock first so the availability
// check and the status write cannot interleave with a concurrent booking.
func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Accommodation, error) {
	const q = `
SELECT id, name, COALESCE(description,''), COALESCE(location,''), price_per_night::text, capacity, is_available, created_at
FROM accommodations
WHERE id = $1
FOR UPDATE
`
	var a Accommodation
	if err := tx.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.Description, &a.Location, &a.PricePerNight, &a.Capacity, &a.IsAvailable, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func SetAvailability(ctx context.Context, tx pgx.Tx, id string, available bool) error {
	const q = `UPDATE accommodations SET is_available = $2 WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, available)
	return err
}
