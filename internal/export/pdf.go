package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/recondash/recondash/internal/documents"
	"github.com/recondash/recondash/internal/documents/lineitems"
)

// RenderPDF renders one document and its line items as a printable invoice
// sheet.
func (e *Exporter) RenderPDF(doc documents.Document, lines []lineitems.LineItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+doc.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE "+doc.InvoiceNumber)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Payer      : " + doc.Payer,
		"Salesman   : " + doc.SalesmanCode,
		"Issue date : " + formatDate(doc.IssueDate),
		"Due date   : " + formatDate(doc.DueDate),
		"Status     : " + string(doc.Status),
		"Recon      : " + string(doc.Recon),
		"City       : " + doc.City + " / " + doc.Region,
		"Route      : " + doc.SAPRoute + " / " + doc.MirnahRoute,
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	if doc.ReasonCode != "" {
		pdf.Cell(0, 6, "Reason     : "+doc.ReasonCode)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 7, "Outlet", "1", 0, "L", false, 0, "")
	pdf.CellFormat(16, 7, "Src", "1", 0, "C", false, 0, "")
	pdf.CellFormat(72, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(16, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(22, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(24, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	var sum float64
	for _, li := range lines {
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", li.Seq), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 6, li.OutletCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(16, 6, li.Source, "1", 0, "C", false, 0, "")
		pdf.CellFormat(72, 6, li.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(16, 6, fmt.Sprintf("%d", li.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 6, e.amount(li.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, e.amount(li.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(6)
		sum += li.Total
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+e.amount(sum))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
