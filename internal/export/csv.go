// Package export renders document listings and detail views into the file
// formats the dashboard offers for download.
package export

import (
	"bytes"
	"encoding/csv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/recondash/recondash/internal/documents"
)

// Exporter renders documents into CSV and PDF downloads.
type Exporter struct {
	printer *message.Printer
}

// New builds an Exporter with English digit grouping for amounts.
func New() *Exporter {
	return &Exporter{printer: message.NewPrinter(language.English)}
}

var csvHeader = []string{
	"Invoice Number", "Payer", "Salesman", "Amount", "Issue Date", "Due Date",
	"Status", "City", "Region", "SAP Route", "Mirnah Route", "Recon", "Reason",
}

// WriteCSV renders the listing rows into a CSV file. Rows keep the order of
// the input collection.
func (e *Exporter) WriteCSV(docs []documents.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, d := range docs {
		row := []string{
			d.InvoiceNumber,
			d.Payer,
			d.SalesmanCode,
			e.amount(d.Amount),
			formatDate(d.IssueDate),
			formatDate(d.DueDate),
			string(d.Status),
			d.City,
			d.Region,
			d.SAPRoute,
			d.MirnahRoute,
			string(d.Recon),
			d.ReasonCode,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) amount(v float64) string {
	return e.printer.Sprintf("%.2f", v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
