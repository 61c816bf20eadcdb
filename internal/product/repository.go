package product

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Category    string    `json:"category,omitempty"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListActive(ctx context.Context) ([]Product, error) {
	const q = `
SELECT id, name, COALESCE(description,''), price::text, COALESCE(category,''), stock, is_active, created_at
FROM products
WHERE is_active
ORDER BY name ASC
`
	return r.list(ctx, q)
}

func (r *Repository) ListAll(ctx context.Context) ([]Product, error) {
	const q = `
SELECT id, name, COALESCE(description,''), price::text, COALESCE(category,''), stock, is_active, created_at
FROM products
ORDER BY name ASC
`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string) ([]Product, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Product, error) {
	const q = `
SELECT id, name, COALESCE(description,''), price::text, COALESCE(category,''), stock, is_active, created_at
FROM products
WHERE id = $1
`
	var p Product
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.IsActive, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Upsert(ctx context.Context, p Product) (*Product, error) {
	if p.ID == "" {
		const q = `
INSERT INTO products (name, description, price, category, stock, is_active)
VALUES ($1, $2, $3::numeric, $4, $5, $6)
RETURNING id, name, COALESCE(description,''), price::text, COALESCE(category,''), stock, is_active, created_at
`
		return r.scanOne(r.db.QueryRow(ctx, q, p.Name, p.Description, p.Price, p.Category, p.Stock, p.IsActive))
	}
	const q = `
UPDATE products
SET name = $2, description = $3, price = $4::numeric, category = $5, stock = $6, is_active = $7
WHERE id = $1
RETURNING id, name, COALESCE(description,''), price::text, COALESCE(category,''), stock, is_active, created_at
`
	return r.scanOne(r.db.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.IsActive))
}

func (r *Repository) scanOne(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// PriceLookup fetches current unit prices for the given product ids inside the
// checkout transaction. Inactive products are excluded so they cannot be
// ordered.
func PriceLookup(ctx context.Context, tx pgx.Tx, ids []string) (map[string]Product, error) {
	const q = `
SELECT id, name, price::text, stock
FROM products
WHERE id = ANY($1) AND is_active
`
	rows, err := tx.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}
