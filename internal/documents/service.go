package documents

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/recondash/recondash/internal/documents/lineitems"
)

// ErrReprocessUnavailable indicates no job queue is wired.
var ErrReprocessUnavailable = errors.New("reprocess queue not configured")

// Reprocessor enqueues background reprocessing of documents.
type Reprocessor interface {
	EnqueueReprocess(ctx context.Context, ids []string, requestedBy string) error
}

// Service coordinates the listing and line-item engines with the system of
// record.
type Service struct {
	repo  Repository
	tasks Reprocessor
	now   func() time.Time
}

// NewService builds a Service. tasks may be nil when no queue is wired
// (reprocess requests then fail fast).
func NewService(repo Repository, tasks Reprocessor) *Service {
	return &Service{repo: repo, tasks: tasks, now: time.Now}
}

// List loads the collection and applies the filter and pagination engines.
// The repository's stored order is preserved through both.
func (s *Service) List(ctx context.Context, criteria FilterCriteria, page, pageSize int) (PageWindow, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return PageWindow{}, err
	}
	return List(docs, criteria, s.now(), page, pageSize), nil
}

// ListFiltered returns every document matching criteria, unpaged. Exports
// cover the whole filter result, not the visible page.
func (s *Service) ListFiltered(ctx context.Context, criteria FilterCriteria) ([]Document, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(docs, criteria, s.now()), nil
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return s.repo.Get(ctx, id)
}

// GetWithLines returns one document and its line items in display order.
func (s *Service) GetWithLines(ctx context.Context, id string) (Document, []lineitems.LineItem, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	lines, err := s.repo.GetLines(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, lines, nil
}

// Approve marks the document approved.
func (s *Service) Approve(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusApproved)
}

// Reject marks the document rejected.
func (s *Service) Reject(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusRejected)
}

// ReconcileInput carries the fields of the detail view's reconcile action.
type ReconcileInput struct {
	Recon      ReconStatus
	ReasonCode string
	CreditNote string
	Comments   string
}

// Reconcile records a reconciliation decision for the document. Unknown
// classifications fall back to manual.
func (s *Service) Reconcile(ctx context.Context, id string, input ReconcileInput) (Document, error) {
	if !ValidReconStatus(input.Recon) {
		input.Recon = ReconManual
	}
	if err := s.repo.UpdateReconciliation(ctx, id, input.Recon, input.ReasonCode, input.CreditNote, input.Comments); err != nil {
		return Document{}, err
	}
	return s.repo.Get(ctx, id)
}

// Reprocess queues the given documents for background re-reconciliation.
func (s *Service) Reprocess(ctx context.Context, ids []string, requestedBy string) error {
	if s.tasks == nil {
		return ErrReprocessUnavailable
	}
	return s.tasks.EnqueueReprocess(ctx, ids, requestedBy)
}

// ReorderLines moves one line item and persists the renumbered order. The
// engine treats out-of-range indices as a no-op, so the persisted order is
// always well formed.
func (s *Service) ReorderLines(ctx context.Context, docID string, from, to int) ([]lineitems.LineItem, error) {
	if _, err := s.repo.Get(ctx, docID); err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, err
	}
	store := lineitems.NewStore(lines).Reorder(from, to)
	items := store.Items()
	if err := s.repo.ReplaceLines(ctx, docID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// LineEditInput carries the editable line fields. Nil means "leave as is".
type LineEditInput struct {
	Quantity  *int
	UnitPrice *float64
}

// EditLine updates quantity and/or unit price of one line and persists the
// recomputed total.
func (s *Service) EditLine(ctx context.Context, docID, lineID string, input LineEditInput) ([]lineitems.LineItem, error) {
	if _, err := s.repo.Get(ctx, docID); err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, err
	}
	store := lineitems.NewStore(lines)
	found := false
	if input.Quantity != nil {
		store, found = store.EditQuantity(lineID, *input.Quantity)
		if !found {
			return nil, ErrLineNotFound
		}
	}
	if input.UnitPrice != nil {
		store, found = store.EditUnitPrice(lineID, *input.UnitPrice)
		if !found {
			return nil, ErrLineNotFound
		}
	}
	items := store.Items()
	if err := s.repo.ReplaceLines(ctx, docID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteLine removes one line item. Remaining sequence numbers are left as
// they are; deletion is independent from reorder renumbering.
func (s *Service) DeleteLine(ctx context.Context, docID, lineID string) error {
	return s.repo.DeleteLine(ctx, docID, lineID)
}

// Summary gathers the dashboard figures concurrently.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var summary Summary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.repo.CountByStatus(ctx)
		if err != nil {
			return err
		}
		summary.ByStatus = counts
		return nil
	})
	g.Go(func() error {
		counts, err := s.repo.CountByRecon(ctx)
		if err != nil {
			return err
		}
		summary.ByRecon = counts
		return nil
	})
	g.Go(func() error {
		recent, err := s.repo.Recent(ctx, 5)
		if err != nil {
			return err
		}
		summary.Recent = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}
