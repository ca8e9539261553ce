package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	nextID int64
	byID   map[int64]User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]User)}
}

func (m *memoryRepo) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memoryRepo) Create(_ context.Context, u User) (User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return User{}, ErrEmailExists
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.byID[u.ID] = u
	return u, nil
}

func (m *memoryRepo) Update(_ context.Context, u User) error {
	existing, ok := m.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	u.Plants = existing.Plants
	m.byID[u.ID] = u
	return nil
}

func (m *memoryRepo) SetStatus(_ context.Context, id int64, status string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Status = status
	m.byID[id] = u
	return nil
}

func (m *memoryRepo) ReplacePlants(_ context.Context, id int64, plants []string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Plants = append([]string(nil), plants...)
	m.byID[id] = u
	return nil
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc := NewService(newMemoryRepo())

	u, err := svc.Create(context.Background(), User{Name: "Amira", Email: " Amira@Example.COM ", Role: "Admin"})
	require.NoError(t, err)
	require.Equal(t, "amira@example.com", u.Email)
	require.Equal(t, RoleAdmin, u.Role)
	require.Equal(t, StatusActive, u.Status)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), User{Name: "X", Email: "x@example.com", Role: "supervisor"})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, User{Name: "A", Email: "a@example.com", Role: RoleUser})
	require.NoError(t, err)

	_, err = svc.Create(ctx, User{Name: "B", Email: "A@Example.com", Role: RoleUser})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestDeactivateKeepsAccount(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.Create(ctx, User{Name: "A", Email: "a@example.com", Role: RoleUser})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, u.ID))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInactive, got.Status)
}

func TestAssignPlantsCleansInput(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	u, err := svc.Create(ctx, User{Name: "A", Email: "a@example.com", Role: RoleUser})
	require.NoError(t, err)

	got, err := svc.AssignPlants(ctx, u.ID, []string{" ryd1 ", "RYD1", "", "jed2"})
	require.NoError(t, err)
	require.Equal(t, []string{"RYD1", "JED2"}, got.Plants)

	_, err = svc.AssignPlants(ctx, 99, []string{"RYD1"})
	require.ErrorIs(t, err, ErrNotFound)
}
