package payers

import (
	"context"
	"strings"
)

// Service applies payer master list rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the payer master list ordered by name.
func (s *Service) List(ctx context.Context) ([]Payer, error) {
	return s.repo.List(ctx)
}

// Search filters the master list by a case-insensitive substring over
// code, name, and short name. An empty query returns everything.
func (s *Service) Search(ctx context.Context, q string) ([]Payer, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all, nil
	}
	out := make([]Payer, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Code), q) ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.ShortName), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns one payer.
func (s *Service) Get(ctx context.Context, id int64) (Payer, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a payer. Codes are stored upper-cased and must be unique.
func (s *Service) Create(ctx context.Context, p Payer) (Payer, error) {
	p = normalize(p)
	if !ValidClass(p.ReconClass) {
		return Payer{}, ErrUnknownClass
	}
	return s.repo.Create(ctx, p)
}

// Update replaces a payer's fields.
func (s *Service) Update(ctx context.Context, p Payer) (Payer, error) {
	p = normalize(p)
	if !ValidClass(p.ReconClass) {
		return Payer{}, ErrUnknownClass
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return Payer{}, err
	}
	return p, nil
}

// Delete removes a payer from the master list.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Classify resolves the reconciliation class for a document's payer field.
// Unknown payers return ErrNotFound; the caller decides the fallback.
func (s *Service) Classify(ctx context.Context, payerName string) (string, error) {
	p, err := s.repo.Match(ctx, payerName)
	if err != nil {
		return "", err
	}
	return p.ReconClass, nil
}

func normalize(p Payer) Payer {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.TrimSpace(p.Name)
	p.ShortName = strings.TrimSpace(p.ShortName)
	p.ReconClass = strings.ToUpper(strings.TrimSpace(p.ReconClass))
	return p
}
