package ticket

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultVerifyURL is used when no template is configured. {id} is replaced
// with the escaped booking id.
const DefaultVerifyURL = "https://tickets.example.com/verify/{id}"

type Renderer struct {
	verifyURL string
	brand     string
}

func NewRenderer(verifyURLTemplate, brand string) *Renderer {
	if verifyURLTemplate == "" {
		verifyURLTemplate = DefaultVerifyURL
	}
	if brand == "" {
		brand = "BUS E-TICKET"
	}
	return &Renderer{verifyURL: verifyURLTemplate, brand: brand}
}

func (r *Renderer) VerifyURL(bookingID string) string {
	return strings.ReplaceAll(r.verifyURL, "{id}", url.PathEscape(bookingID))
}

// Render draws a single-page A4 e-ticket with a QR code pointing at the
// verification URL.
func (r *Renderer) Render(b domain.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.BookingID, false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, r.brand)
	pdf.Ln(18)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 62, "F")

	pdf.SetXY(20, yStart+6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "BOOKING SUMMARY")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range summaryLines(b) {
		pdf.SetX(20)
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	qr, err := qrcode.Encode(r.VerifyURL(b.BookingID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 145, yStart+4, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(yStart + 70)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this ticket and the QR code when boarding. One seat per passenger.", "", "", false)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Issued "+issued(b.CreatedAt), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket %s: %w", b.BookingID, err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the ticket into dir as ticket-<id>.pdf.
func (r *Renderer) WriteFile(dir string, b domain.Booking) (string, error) {
	data, err := r.Render(b)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create ticket dir: %w", err)
	}
	path := filepath.Join(dir, FileName(b.BookingID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write ticket: %w", err)
	}
	return path, nil
}

// FileName is the ticket file name for a booking id, safe for any id.
func FileName(bookingID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, bookingID)
	return "ticket-" + safe + ".pdf"
}

func summaryLines(b domain.Booking) []string {
	seats := make([]string, len(b.SeatNumbers))
	for i, n := range b.SeatNumbers {
		seats[i] = strconv.Itoa(n)
	}
	lines := []string{"Booking ID: " + b.BookingID}
	if b.RouteName != "" {
		lines = append(lines, "Service: "+b.RouteName)
	}
	lines = append(lines,
		fmt.Sprintf("Route: %s - %s", orDash(b.From), orDash(b.To)),
		fmt.Sprintf("Date: %s  Departure: %s", orDash(b.TravelDate), orDash(b.Departure)),
		"Seats: "+strings.Join(seats, ", "),
		fmt.Sprintf("Total: %.2f", float64(b.TotalMinor)/100),
	)
	return lines
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func issued(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}
