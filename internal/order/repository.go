package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	UserID          string        `json:"userId"`
	ShippingAddress string        `json:"shippingAddress"`
	Total           string        `json:"total"`
	Status          Status        `json:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	Lines           []Line        `json:"lines,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

const orderColumns = `
id, order_number, user_id, COALESCE(shipping_address,''), total::text, status, payment_status, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.ShippingAddress, &o.Total, &o.Status, &o.PaymentStatus,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	o.Lines, err = r.linesByOrder(ctx, o.ID)
	return o, err
}

func (r *Repository) linesByOrder(ctx context.Context, orderID string) ([]Line, error) {
	const q = `
SELECT product_id, product_name, unit_price::text, quantity
FROM order_lines
WHERE order_id = $1
ORDER BY product_name ASC
`
	rows, err := r.db.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
FOR UPDATE
`
	return scanOrder(tx.QueryRow(ctx, q, id))
}

func Insert(ctx context.Context, tx pgx.Tx, userID, orderNumber, shippingAddress, total string, lines []PricedLine) (*Order, error) {
	const q = `
INSERT INTO orders (order_number, user_id, shipping_address, total, status, payment_status)
VALUES ($1, $2, $3, $4::numeric, 'pending', 'unpaid')
RETURNING ` + orderColumns + `
`
	o, err := scanOrder(tx.QueryRow(ctx, q, orderNumber, userID, shippingAddress, total))
	if err != nil {
		return nil, err
	}

	const ql = `
INSERT INTO order_lines (order_id, product_id, product_name, unit_price, quantity)
VALUES ($1, $2, $3, $4::numeric, $5)
`
	for _, l := range lines {
		if _, err := tx.Exec(ctx, ql, o.ID, l.ProductID, l.Name, l.UnitPrice.StringFixed(2), l.Quantity); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, Line{ProductID: l.ProductID, Name: l.Name, UnitPrice: l.UnitPrice.StringFixed(2), Quantity: l.Quantity})
	}
	return o, nil
}

func UpdateStatus(ctx context.Context, tx pgx.Tx, id string, next Status) error {
	const q = `
UPDATE orders
SET status = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, string(next))
	return err
}

func MarkPaid(ctx context.Context, tx pgx.Tx, id string) error {
	const q = `
UPDATE orders
SET payment_status = 'paid', updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id)
	return err
}
