package order

import (
	"testing"

	"github.com/shopspring/decimal"

	"mcanlodge/internal/product"
)

func testPrices() map[string]product.Product {
	return map[string]product.Product{
		"p1": {ID: "p1", Name: "Prayer mat", Price: "15.50"},
		"p2": {ID: "p2", Name: "Water flask", Price: "7.25"},
	}
}

func TestPriceCart_TotalUsesServerPrices(t *testing.T) {
	lines := []CartLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}

	priced, total, err := PriceCart(lines, testPrices())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(priced) != 2 {
		t.Fatalf("expected 2 priced lines, got %d", len(priced))
	}

	want := decimal.RequireFromString("52.75") // 2*15.50 + 3*7.25
	if !total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, total)
	}
}

func TestPriceCart_MergesDuplicateLines(t *testing.T) {
	lines := []CartLine{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p1", Quantity: 2},
	}

	priced, total, err := PriceCart(lines, testPrices())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(priced) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(priced))
	}
	if priced[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", priced[0].Quantity)
	}
	if want := decimal.RequireFromString("46.50"); !total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, total)
	}
}

func TestPriceCart_UnknownProductFails(t *testing.T) {
	_, _, err := PriceCart([]CartLine{{ProductID: "ghost", Quantity: 1}}, testPrices())
	if err == nil {
		t.Fatalf("expected error")
	}
	verr, ok := err.(ValidationError)
	if !ok || verr.Code != "PRODUCT_UNKNOWN" {
		t.Fatalf("expected PRODUCT_UNKNOWN, got %v", err)
	}
}

func TestPriceCart_RejectsEmptyAndBadQuantities(t *testing.T) {
	if _, _, err := PriceCart(nil, testPrices()); err == nil {
		t.Fatalf("expected empty cart to fail")
	}
	if _, _, err := PriceCart([]CartLine{{ProductID: "p1", Quantity: 0}}, testPrices()); err == nil {
		t.Fatalf("expected zero quantity to fail")
	}
	if _, _, err := PriceCart([]CartLine{{ProductID: "p1", Quantity: maxLineQuantity + 1}}, testPrices()); err == nil {
		t.Fatalf("expected oversize quantity to fail")
	}
}
