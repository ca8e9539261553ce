package users

import (
	"context"
	"strings"
)

// Service applies account rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all accounts with their plant assignments.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// Create adds an account. New accounts start active unless told otherwise.
func (s *Service) Create(ctx context.Context, u User) (User, error) {
	u = normalize(u)
	if !ValidRole(u.Role) {
		return User{}, ErrInvalidRole
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return s.repo.Create(ctx, u)
}

// Update replaces an account's fields, keeping plant assignments as they are.
func (s *Service) Update(ctx context.Context, u User) (User, error) {
	u = normalize(u)
	if !ValidRole(u.Role) {
		return User{}, ErrInvalidRole
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, u.ID)
}

// Deactivate marks the account inactive instead of deleting it, so document
// history keeps pointing at a real account.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetStatus(ctx, id, StatusInactive)
}

// AssignPlants replaces the account's plant assignments.
func (s *Service) AssignPlants(ctx context.Context, id int64, plants []string) (User, error) {
	cleaned := make([]string, 0, len(plants))
	seen := make(map[string]struct{}, len(plants))
	for _, plant := range plants {
		plant = strings.ToUpper(strings.TrimSpace(plant))
		if plant == "" {
			continue
		}
		if _, dup := seen[plant]; dup {
			continue
		}
		seen[plant] = struct{}{}
		cleaned = append(cleaned, plant)
	}
	if err := s.repo.ReplacePlants(ctx, id, cleaned); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

func normalize(u User) User {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	u.Status = strings.ToLower(strings.TrimSpace(u.Status))
	return u
}
