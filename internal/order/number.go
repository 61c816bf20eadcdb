package order

import (
	"strings"

	"github.com/google/uuid"
)

// NewOrderNumber returns a human-readable order number like MCN-3F9A21C4.
// Uniqueness is backed by the unique index on orders.order_number; the odds of
// a collision in 8 hex chars are acceptable for retry-on-conflict at insert.
func NewOrderNumber() string {
	id := uuid.New()
	return "MCN-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
