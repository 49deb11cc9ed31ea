package infra

// pdf.go: checkout receipt rendering with go-pdf/fpdf.
// The receipt is A7-sized (74mm × 105mm) and lists each purchased item, the
// charged total and the processor transaction id. Files are written to
// storagePath/receipt_{paymentID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"bistro/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReceiptLine is one purchased item as printed on the receipt.
type ReceiptLine struct {
	Name  string
	Price decimal.Decimal
}

// GenerateReceiptPDF renders the receipt for p and returns the written file path.
func GenerateReceiptPDF(p *model.Payment, lines []ReceiptLine, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("receipt_%s.pdf", p.ID.Hex()))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Bistro Boss", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Payment receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Customer: "+p.Email, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Transaction: "+p.TransactionID, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, p.Date.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	nameW := contentW * 0.7
	priceW := contentW * 0.3

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(nameW, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(priceW, 5, "Price", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range lines {
		name := l.Name
		if len(name) > 30 {
			name = name[:29] + "."
		}
		pdf.CellFormat(nameW, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(priceW, 5, "$"+l.Price.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(nameW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(priceW, 6, "$"+decimal.NewFromFloat(p.Price).StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for dining with us!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
