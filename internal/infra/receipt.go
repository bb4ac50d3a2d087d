package infra

// receipt.go renders a committed sale as an 80 mm thermal-style receipt,
// both as plain text (e-mail body, printer fallback) and as a PDF.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const receiptWidth = 32 // characters per line on the text receipt

type Receipt struct {
	StoreName     string
	SaleID        string
	Date          time.Time
	Cashier       string
	PaymentMethod string
	Lines         []ReceiptLine
	Total         decimal.Decimal
	Net           decimal.Decimal
}

type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l ReceiptLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShortID is the first 8 characters of the sale id, as printed on receipts.
func (r Receipt) ShortID() string {
	if len(r.SaleID) > 8 {
		return r.SaleID[:8]
	}
	return r.SaleID
}

// ReceiptText renders the receipt as fixed-width text.
func ReceiptText(r Receipt) string {
	var b strings.Builder
	sep := strings.Repeat("-", receiptWidth)

	b.WriteString(center(strings.ToUpper(r.StoreName)) + "\n")
	b.WriteString(sep + "\n")
	b.WriteString("Venta: " + r.ShortID() + "\n")
	b.WriteString("Fecha: " + r.Date.Format("02/01/2006 15:04") + "\n")
	b.WriteString("Atendido por: " + r.Cashier + "\n")
	b.WriteString(sep + "\n")
	for _, l := range r.Lines {
		b.WriteString(truncate(l.Name, receiptWidth) + "\n")
		qty := fmt.Sprintf("  %d x %s", l.Quantity, FormatCLP(l.UnitPrice))
		b.WriteString(row(qty, FormatCLP(l.Subtotal())) + "\n")
	}
	b.WriteString(sep + "\n")
	b.WriteString(row("Neto", FormatCLP(r.Net)) + "\n")
	b.WriteString(row("IVA 19%", FormatCLP(r.Total.Sub(r.Net))) + "\n")
	b.WriteString(row("TOTAL", FormatCLP(r.Total)) + "\n")
	b.WriteString("Pago: " + r.PaymentMethod + "\n")
	b.WriteString(sep + "\n")
	b.WriteString(center("Gracias por su compra") + "\n")
	return b.String()
}

// GenerateReceiptPDF writes the receipt to storagePath/receipt_<id>.pdf and
// returns the file path.
func GenerateReceiptPDF(r Receipt, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("receipt_%s.pdf", r.ShortID()))

	height := 90.0 + 9*float64(len(r.Lines))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8
	rule := func() {
		pdf.Ln(1)
		pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(r.StoreName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Venta "+r.ShortID(), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, r.Date.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Atendido por: "+r.Cashier), "", 1, "C", false, 0, "")
	rule()

	nameW, qtyW, amtW := contentW*0.55, contentW*0.15, contentW*0.30
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(nameW, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(amtW, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range r.Lines {
		pdf.CellFormat(nameW, 5, tr(truncate(l.Name, 24)), "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 5, fmt.Sprintf("x%d", l.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(amtW, 5, FormatCLP(l.Subtotal()), "", 1, "R", false, 0, "")
	}
	rule()

	pdf.CellFormat(nameW+qtyW, 4, "Neto", "", 0, "L", false, 0, "")
	pdf.CellFormat(amtW, 4, FormatCLP(r.Net), "", 1, "R", false, 0, "")
	pdf.CellFormat(nameW+qtyW, 4, "IVA 19%", "", 0, "L", false, 0, "")
	pdf.CellFormat(amtW, 4, FormatCLP(r.Total.Sub(r.Net)), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(nameW+qtyW, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(amtW, 6, FormatCLP(r.Total), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Pago: "+r.PaymentMethod, "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Gracias por su compra", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "."
}

func center(s string) string {
	pad := (receiptWidth - utf8.RuneCountInString(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// row left-aligns label and right-aligns value on one receipt line.
func row(label, value string) string {
	gap := receiptWidth - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}
