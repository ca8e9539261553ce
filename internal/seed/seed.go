// Package seed generates development fixtures for the dashboard: invoices,
// line items and the payer master list.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/recondash/recondash/internal/documents"
	"github.com/recondash/recondash/internal/documents/lineitems"
	"github.com/recondash/recondash/internal/payers"
)

var (
	cities = []struct {
		City   string
		Region string
	}{
		{"Riyadh", "Central"},
		{"Jeddah", "Western"},
		{"Dammam", "Eastern"},
		{"Makkah", "Western"},
		{"Abha", "Southern"},
		{"Tabuk", "Northern"},
	}

	payerNames = []string{"OTHAIM MARKETS", "CARREFOUR HYPERMARKET", "NESTO TRADING", "PANDA RETAIL", "LULU GROUP"}

	reasons = []string{"", "", "Recon classification not found", "GRN value mismatch", "Credit note pending"}

	items = []string{"Water 330ml x24", "Juice 1L x12", "Snack box", "Dates 500g", "Coffee 250g", "Tissue pack x10"}
)

// Payers returns the default payer master list.
func Payers() []payers.Payer {
	return []payers.Payer{
		{Code: "OTHAIM", Name: "Othaim Markets", ShortName: "OTHAIM", ReconClass: payers.ClassStamp},
		{Code: "CARREFOUR", Name: "Carrefour Hypermarket", ShortName: "CARREFOUR", ReconClass: payers.ClassGRN},
		{Code: "NESTO", Name: "Nesto Trading", ShortName: "NESTO", ReconClass: payers.ClassManual},
		{Code: "PANDA", Name: "Panda Retail", ShortName: "PANDA", ReconClass: payers.ClassStamp},
		{Code: "LULU", Name: "Lulu Group", ShortName: "LULU", ReconClass: payers.ClassGRN},
	}
}

// Documents generates n invoices with line items, deterministic for a given
// rng seed.
func Documents(n int, rng *rand.Rand, now time.Time) []Fixture {
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}
	out := make([]Fixture, 0, n)
	statuses := []documents.Status{documents.StatusPending, documents.StatusApproved, documents.StatusRejected}
	recons := []documents.ReconStatus{
		documents.ReconNotReconciled, documents.ReconNotReconciled,
		documents.ReconStamp, documents.ReconGRN, documents.ReconManual,
	}

	for i := 0; i < n; i++ {
		loc := cities[rng.Intn(len(cities))]
		issue := now.AddDate(0, 0, -rng.Intn(90))
		recon := recons[rng.Intn(len(recons))]
		reason := ""
		if recon == documents.ReconNotReconciled {
			reason = reasons[rng.Intn(len(reasons))]
		}

		doc := documents.Document{
			ID:            uuid.NewString(),
			InvoiceNumber: fmt.Sprintf("INV-%05d", i+1),
			Payer:         payerNames[rng.Intn(len(payerNames))],
			SalesmanCode:  fmt.Sprintf("SLM-%02d", rng.Intn(20)+1),
			IssueDate:     issue,
			DueDate:       issue.AddDate(0, 0, 30),
			Status:        statuses[rng.Intn(len(statuses))],
			City:          loc.City,
			Region:        loc.Region,
			SAPRoute:      fmt.Sprintf("S-%03d", rng.Intn(900)+100),
			MirnahRoute:   fmt.Sprintf("R-%02d", rng.Intn(90)+10),
			Recon:         recon,
			ReasonCode:    reason,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		lines := makeLines(rng)
		for _, li := range lines {
			doc.Amount += li.Total
		}
		out = append(out, Fixture{Document: doc, Lines: lines})
	}
	return out
}

// Fixture pairs one generated document with its line items.
type Fixture struct {
	Document documents.Document
	Lines    []lineitems.LineItem
}

// Load inserts n generated documents and the payer master list through the
// given repositories. Existing rows are left alone.
func Load(ctx context.Context, docs documents.Repository, payerRepo payers.Repository, n int) error {
	now := time.Now().UTC()
	for _, p := range Payers() {
		if _, err := payerRepo.Create(ctx, p); err != nil && !errors.Is(err, payers.ErrCodeExists) {
			return err
		}
	}
	for _, f := range Documents(n, nil, now) {
		if err := docs.Insert(ctx, f.Document, f.Lines); err != nil {
			return err
		}
	}
	return nil
}

func makeLines(rng *rand.Rand) []lineitems.LineItem {
	count := rng.Intn(5) + 1
	lines := make([]lineitems.LineItem, 0, count)
	for i := 0; i < count; i++ {
		base := lineitems.LineItem{
			ID:          uuid.NewString(),
			OutletCode:  fmt.Sprintf("OUT-%03d", rng.Intn(900)+100),
			Source:      lineitems.SourceInvoice,
			Description: items[rng.Intn(len(items))],
		}
		if rng.Intn(4) == 0 {
			base.Source = lineitems.SourceGRN
		}
		line := base.
			WithQuantity(rng.Intn(24) + 1).
			WithUnitPrice(float64(rng.Intn(5000)+50) / 100)
		line.Seq = i + 1
		lines = append(lines, line)
	}
	return lines
}
