package controllers

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/tokenworks/servicepos-app/models"
)

// buildTokenSlip merender slip token satu halaman untuk dicetak/diberikan ke
// customer. Isinya field token + timestamp cetak.
func buildTokenSlip(token models.Token) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "SERVICE TOKEN", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Courier", "B", 12)
	pdf.CellFormat(0, 7, token.TokenID, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	line := func(label, value string) {
		pdf.CellFormat(28, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}

	line("Customer", token.CustomerName)
	line("Phone", token.CustomerPhone)
	if token.DailyNumber != nil {
		line("Number", fmt.Sprintf("#%d", *token.DailyNumber))
	}
	line("Issued", token.GeneratedAt.Format("2006-01-02 15:04"))
	line("Status", token.Status)
	if token.Notes != "" {
		line("Notes", token.Notes)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Valid for a single visit. Present this slip to the counter.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
