package receipt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// Data is everything the receipt renderer needs; it holds no handles to the
// database so rendering stays a pure function of its input.
type Data struct {
	OrgName      string
	OrgShortCode string
	SupportEmail string

	Serial    string
	PaymentID string

	PayerName  string
	PayerEmail string

	BookingRef    string
	Month         time.Month
	Year          int
	Method        string
	Reference     string
	Amount        decimal.Decimal
	ApprovedAt    time.Time
	VerifiedBy    string
	VerifyBaseURL string
}

func (d Data) Validate() error {
	if d.OrgName == "" || d.OrgShortCode == "" {
		return fmt.Errorf("organization identity is required")
	}
	if d.Serial == "" || d.PaymentID == "" {
		return fmt.Errorf("receipt serial and payment id are required")
	}
	if d.PayerName == "" {
		return fmt.Errorf("payer name is required")
	}
	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("month out of range: %d", d.Month)
	}
	return nil
}

// Filename returns the on-disk name for a payment receipt, e.g.
// receipt_MCAN-1a2b3c4d.pdf.
func Filename(shortCode, paymentID string) string {
	suffix := strings.ReplaceAll(paymentID, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("receipt_%s-%s.pdf", shortCode, suffix)
}

// Render produces the receipt PDF bytes.
func Render(d Data) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetAutoPageBreak(false, 0)

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, strings.ToUpper(d.OrgName))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Official Payment Receipt")
	pdf.Ln(10)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	// Summary box with QR alongside
	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 50, "F")

	pdf.SetXY(20, yStart+6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "RECEIPT "+d.Serial)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Received from: %s", d.PayerName))
	pdf.Ln(6)
	if d.PayerEmail != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Email: %s", d.PayerEmail))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", d.ApprovedAt.Format("02 Jan 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Amount: NGN %s", d.Amount.StringFixed(2)))

	if d.VerifyBaseURL != "" {
		verifyURL := fmt.Sprintf("%s/api/receipts/verify/%s", strings.TrimSuffix(d.VerifyBaseURL, "/"), d.Serial)
		if qrBytes, err := qrcode.Encode(verifyURL, qrcode.Medium, 256); err == nil {
			pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrBytes))
			pdf.ImageOptions("qr", 148, yStart+5, 40, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")
		}
	}

	pdf.SetY(yStart + 58)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Scan the QR code to verify this receipt.")
	pdf.Ln(10)

	// Itemized details
	drawSectionTitle(pdf, "PAYMENT DETAILS")
	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Booking", d.BookingRef},
		{"Period", fmt.Sprintf("%s %d", d.Month, d.Year)},
		{"Method", d.Method},
		{"Reference", d.Reference},
		{"Verified by", d.VerifiedBy},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(45, 7, row[0])
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, row[1], "", "", false)
		pdf.Ln(1)
	}
	pdf.Ln(6)

	drawSectionTitle(pdf, "AMOUNT IN WORDS")
	words, err := AmountInWords(d.Amount, "Naira")
	if err != nil {
		return nil, err
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 7, words, "", "", false)

	// Footer
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 280, 195, 280)
	pdf.SetY(283)
	pdf.SetFont("Helvetica", "I", 9)
	footer := d.OrgName
	if d.SupportEmail != "" {
		footer += "  |  " + d.SupportEmail
	}
	pdf.CellFormat(0, 6, footer, "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the receipt and persists it under dir, creating the
// directory if needed. It returns the full path written.
func WriteFile(dir string, d Data) (string, error) {
	b, err := Render(d)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(d.OrgShortCode, d.PaymentID))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}
