package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mcanlodge/internal/product"
)

// CartLine is what the client submits: a product reference and a quantity.
// Any client-supplied price is ignored; the server's current product price is
// the only price authority.
type CartLine struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type PricedLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func (l PricedLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const maxLineQuantity = 100

// PriceCart resolves cart lines against current server-side prices and
// computes the order total.
//
// Rules:
// - At least one line; quantities in [1, maxLineQuantity].
// - Duplicate product lines are merged.
// - Every product must exist and be active; anything else fails the checkout.
func PriceCart(lines []CartLine, prices map[string]product.Product) ([]PricedLine, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, ValidationError{Code: "CART_EMPTY", Message: "cart must contain at least one line"}
	}

	merged := make(map[string]int, len(lines))
	ordered := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, decimal.Zero, ValidationError{Code: "QUANTITY_INVALID", Message: "quantity must be at least 1"}
		}
		if _, seen := merged[l.ProductID]; !seen {
			ordered = append(ordered, l.ProductID)
		}
		merged[l.ProductID] += l.Quantity
		if merged[l.ProductID] > maxLineQuantity {
			return nil, decimal.Zero, ValidationError{Code: "QUANTITY_INVALID", Message: fmt.Sprintf("quantity for a product cannot exceed %d", maxLineQuantity)}
		}
	}

	out := make([]PricedLine, 0, len(ordered))
	total := decimal.Zero
	for _, id := range ordered {
		p, ok := prices[id]
		if !ok {
			return nil, decimal.Zero, ValidationError{Code: "PRODUCT_UNKNOWN", Message: fmt.Sprintf("product %s not found or inactive", id)}
		}
		unit, err := decimal.NewFromString(p.Price)
		if err != nil || unit.LessThanOrEqual(decimal.Zero) {
			return nil, decimal.Zero, ValidationError{Code: "PRICE_INVALID", Message: fmt.Sprintf("product %s has no valid price", id)}
		}
		line := PricedLine{ProductID: id, Name: p.Name, UnitPrice: unit, Quantity: merged[id]}
		out = append(out, line)
		total = total.Add(line.Subtotal())
	}

	return out, total.Round(2), nil
}
