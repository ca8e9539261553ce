package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recondash/recondash/internal/documents"
	"github.com/recondash/recondash/internal/documents/lineitems"
)

func sampleDoc() documents.Document {
	return documents.Document{
		ID:            "doc-1",
		InvoiceNumber: "INV-1001",
		Payer:         "OTHAIM MARKETS",
		SalesmanCode:  "SLM-7",
		Amount:        12500.50,
		IssueDate:     time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, time.September, 19, 0, 0, 0, 0, time.UTC),
		Status:        documents.StatusPending,
		City:          "Riyadh",
		Region:        "Central",
		SAPRoute:      "S-440",
		MirnahRoute:   "R-12",
		Recon:         documents.ReconNotReconciled,
	}
}

func TestWriteCSV(t *testing.T) {
	data, err := New().WriteCSV([]documents.Document{sampleDoc()})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, csvHeader, records[0])

	row := records[1]
	require.Equal(t, "INV-1001", row[0])
	require.Equal(t, "12,500.50", row[3])
	require.Equal(t, "2026-08-20", row[4])
	require.Equal(t, "Not reconciled", row[11])
}

func TestWriteCSVEmptyListing(t *testing.T) {
	data, err := New().WriteCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestRenderPDF(t *testing.T) {
	lines := []lineitems.LineItem{
		{ID: "li-1", Seq: 1, OutletCode: "OUT-1", Source: lineitems.SourceInvoice, Description: "Item A", Quantity: 12, UnitPrice: 15.60, Total: 187.20},
		{ID: "li-2", Seq: 2, OutletCode: "OUT-2", Source: lineitems.SourceGRN, Description: "Item B", Quantity: 3, UnitPrice: 9.99, Total: 29.97},
	}

	data, err := New().RenderPDF(sampleDoc(), lines)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
