package tenants

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haven-pm/haven-pm/internal/shared"
)

type mockRepository struct {
	tenants map[int64]*Tenant
	events  map[int64]*MoveEvent
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{tenants: make(map[int64]*Tenant), events: make(map[int64]*MoveEvent), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context) ([]Tenant, error) {
	out := make([]Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return Tenant{}, shared.ErrNotFound
	}
	return *t, nil
}

func (m *mockRepository) Create(ctx context.Context, t Tenant) (Tenant, error) {
	t.ID = m.nextID
	m.nextID++
	m.tenants[t.ID] = &t
	return t, nil
}

func (m *mockRepository) Update(ctx context.Context, t Tenant) (Tenant, error) {
	if _, ok := m.tenants[t.ID]; !ok {
		return Tenant{}, shared.ErrNotFound
	}
	m.tenants[t.ID] = &t
	return t, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.tenants[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.tenants, id)
	return nil
}

func (m *mockRepository) ListMoveEvents(ctx context.Context, tenantID int64) ([]MoveEvent, error) {
	var out []MoveEvent
	for _, e := range m.events {
		if e.TenantID == tenantID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) GetMoveEvent(ctx context.Context, id int64) (MoveEvent, error) {
	e, ok := m.events[id]
	if !ok {
		return MoveEvent{}, shared.ErrNotFound
	}
	return *e, nil
}

func (m *mockRepository) CreateMoveEvent(ctx context.Context, e MoveEvent) (MoveEvent, error) {
	e.ID = m.nextID
	m.nextID++
	m.events[e.ID] = &e
	return e, nil
}

func (m *mockRepository) UpdateMoveEvent(ctx context.Context, e MoveEvent) (MoveEvent, error) {
	if _, ok := m.events[e.ID]; !ok {
		return MoveEvent{}, shared.ErrNotFound
	}
	m.events[e.ID] = &e
	return e, nil
}

type mockOccupancy struct {
	occupied map[int64]bool
}

func (m *mockOccupancy) SetUnitOccupied(ctx context.Context, id int64, occupied bool) error {
	m.occupied[id] = occupied
	return nil
}

func newService(repo *mockRepository, occ *mockOccupancy) *Service {
	return NewService(repo, occ, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompleteMoveInOccupiesUnit(t *testing.T) {
	repo := newMockRepository()
	occ := &mockOccupancy{occupied: make(map[int64]bool)}
	svc := newService(repo, occ)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, CreateInput{Name: "Ada Lovelace", Email: "ADA@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", tenant.Email)

	event, err := svc.ScheduleMove(ctx, tenant.ID, MoveEventInput{
		UnitID: 7, Kind: MoveIn, ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Nil(t, event.CompletedAt)

	event, err = svc.CompleteMove(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, event.CompletedAt)

	assert.True(t, occ.occupied[7])
	got, err := svc.Get(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UnitID)
	assert.Equal(t, int64(7), *got.UnitID)
}

func TestCompleteMoveOutClearsOccupancy(t *testing.T) {
	repo := newMockRepository()
	occ := &mockOccupancy{occupied: map[int64]bool{7: true}}
	svc := newService(repo, occ)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, CreateInput{Name: "Grace Hopper"})
	require.NoError(t, err)
	unitID := int64(7)
	stored := repo.tenants[tenant.ID]
	stored.UnitID = &unitID

	event, err := svc.ScheduleMove(ctx, tenant.ID, MoveEventInput{
		UnitID: 7, Kind: MoveOut, ScheduledAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.CompleteMove(ctx, event.ID)
	require.NoError(t, err)

	assert.False(t, occ.occupied[7])
	got, err := svc.Get(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UnitID)
}

func TestCompleteMoveTwiceRejected(t *testing.T) {
	repo := newMockRepository()
	occ := &mockOccupancy{occupied: make(map[int64]bool)}
	svc := newService(repo, occ)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, CreateInput{Name: "Katherine Johnson"})
	require.NoError(t, err)
	event, err := svc.ScheduleMove(ctx, tenant.ID, MoveEventInput{
		UnitID: 3, Kind: MoveIn, ScheduledAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.CompleteMove(ctx, event.ID)
	require.NoError(t, err)
	_, err = svc.CompleteMove(ctx, event.ID)
	assert.Error(t, err)
}

func TestScheduleMoveUnknownKind(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo, &mockOccupancy{occupied: make(map[int64]bool)})
	ctx := context.Background()

	tenant, err := svc.Create(ctx, CreateInput{Name: "Mary Jackson"})
	require.NoError(t, err)
	_, err = svc.ScheduleMove(ctx, tenant.ID, MoveEventInput{UnitID: 1, Kind: "sideways", ScheduledAt: time.Now()})
	assert.Error(t, err)
}
