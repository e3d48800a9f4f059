package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/go-pdf/fpdf"
)

var paymentLabels = map[string]string{
	model.PaymentCash:   "Espèces",
	model.PaymentCard:   "Carte bancaire",
	model.PaymentCheck:  "Chèque",
	model.PaymentOnline: "Paiement en ligne",
}

// RenderReceiptPDF writes a till-roll sized receipt for sale into dir and
// returns the file path. sale must have Lines (with Product) loaded.
func RenderReceiptPDF(sale *model.Sale, shopName, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, "receipt_"+sale.SaleNumber+".pdf")

	// 80mm roll, height grows with the number of lines
	height := 70.0 + 5.0*float64(len(sale.Lines))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: height},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	w := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 7, tr(shopName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(w, 4, tr("Ticket "+sale.SaleNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(w, 4, sale.CreatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	if sale.Customer != nil {
		pdf.CellFormat(w, 4, tr(sale.Customer.FullName()), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	nameW, qtyW, amtW := w*0.55, w*0.17, w*0.28
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(nameW, 5, "Article", "B", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 5, tr("Qté"), "B", 0, "C", false, 0, "")
	pdf.CellFormat(amtW, 5, "Montant HT", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for i := range sale.Lines {
		line := &sale.Lines[i]
		name := line.ProductID.String()[:8]
		if line.Product != nil {
			name = line.Product.Name
		}
		if len([]rune(name)) > 26 {
			name = string([]rune(name)[:25]) + "."
		}
		pdf.CellFormat(nameW, 5, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 5, line.Quantity.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(amtW, 5, model.RoundMoney(line.LineTotal()).StringFixed(2)+" EUR", "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	row := func(label, amount string) {
		pdf.CellFormat(nameW+qtyW, 5, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(amtW, 5, amount+" EUR", "", 1, "R", false, 0, "")
	}
	row("Sous-total HT", sale.Subtotal.StringFixed(2))
	row("TVA", sale.VATAmount.StringFixed(2))
	if !sale.DiscountAmount.IsZero() {
		row("Remise fidélité", "-"+sale.DiscountAmount.StringFixed(2))
	}
	pdf.SetFont("Helvetica", "B", 9)
	row("TOTAL TTC", sale.Total.StringFixed(2))

	pdf.SetFont("Helvetica", "", 7)
	if label, ok := paymentLabels[sale.PaymentMethod]; ok {
		pdf.CellFormat(w, 5, tr("Réglé par "+label), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(w, 4, tr("Merci de votre visite et à bientôt !"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}
