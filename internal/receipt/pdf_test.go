package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validData() Data {
	return Data{
		OrgName:      "MCAN Lodge",
		OrgShortCode: "MCAN",
		Serial:       "RCP-2026-000042",
		PaymentID:    "7b1e4a90-9c1d-4f7e-8a23-0d6f1c2b3a45",
		PayerName:    "Abdullahi Musa",
		BookingRef:   "Room 4, Annex",
		Month:        time.March,
		Year:         2026,
		Method:       "bank_transfer",
		Reference:    "TRF/2026/0099",
		Amount:       decimal.RequireFromString("4500.00"),
		ApprovedAt:   time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		VerifiedBy:   "amina@example.com",
	}
}

func TestFilename(t *testing.T) {
	got := Filename("MCAN", "7b1e4a90-9c1d-4f7e-8a23-0d6f1c2b3a45")
	if got != "receipt_MCAN-7b1e4a90.pdf" {
		t.Fatalf("unexpected filename: %q", got)
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	b, err := Render(validData())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestRender_ValidatesInput(t *testing.T) {
	d := validData()
	d.PayerName = ""
	if _, err := Render(d); err == nil {
		t.Fatalf("expected missing payer name to fail")
	}

	d = validData()
	d.Amount = decimal.Zero
	if _, err := Render(d); err == nil {
		t.Fatalf("expected zero amount to fail")
	}

	d = validData()
	d.Month = time.Month(13)
	if _, err := Render(d); err == nil {
		t.Fatalf("expected out-of-range month to fail")
	}
}
