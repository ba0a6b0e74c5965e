package workorders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/shared"
)

type mockRepository struct {
	orders map[int64]*WorkOrder
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{orders: make(map[int64]*WorkOrder), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context) ([]WorkOrder, error) {
	out := make([]WorkOrder, 0, len(m.orders))
	for _, wo := range m.orders {
		out = append(out, *wo)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (WorkOrder, error) {
	wo, ok := m.orders[id]
	if !ok {
		return WorkOrder{}, shared.ErrNotFound
	}
	return *wo, nil
}

func (m *mockRepository) Create(ctx context.Context, wo WorkOrder) (WorkOrder, error) {
	wo.ID = m.nextID
	m.nextID++
	m.orders[wo.ID] = &wo
	return wo, nil
}

func (m *mockRepository) Update(ctx context.Context, wo WorkOrder) (WorkOrder, error) {
	if _, ok := m.orders[wo.ID]; !ok {
		return WorkOrder{}, shared.ErrNotFound
	}
	m.orders[wo.ID] = &wo
	return wo, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func accessWith(t *testing.T, userID, role string, defaults []authz.RoleDefault) *authz.Access {
	t.Helper()
	return &authz.Access{
		Principal: authz.Principal{ID: userID, Role: role, Approved: true},
		Ruleset:   authz.BuildRuleset(defaults, nil),
	}
}

func seedOrders(t *testing.T, repo *mockRepository) {
	t.Helper()
	svc := NewService(repo)
	assignee := "u1"
	other := "u2"
	for _, in := range []CreateInput{
		{PropertyID: 1, Title: "Leaking faucet", AssignedTo: &assignee},
		{PropertyID: 1, Title: "Broken window", AssignedTo: &other},
		{PropertyID: 2, Title: "HVAC inspection follow-up"},
	} {
		_, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
	}
}

func TestListViewAllSeesEverything(t *testing.T) {
	repo := newMockRepository()
	seedOrders(t, repo)
	svc := NewService(repo)

	access := accessWith(t, "u1", authz.RolePropertyManager, []authz.RoleDefault{
		{Role: authz.RolePropertyManager, Code: "work_orders.view_all", Allowed: true},
	})
	orders, err := svc.List(context.Background(), access)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestListViewOwnExcludesUnassigned(t *testing.T) {
	repo := newMockRepository()
	seedOrders(t, repo)
	svc := NewService(repo)

	access := accessWith(t, "u1", authz.RoleSubContractor, []authz.RoleDefault{
		{Role: authz.RoleSubContractor, Code: "work_orders.view_own", Allowed: true},
	})
	orders, err := svc.List(context.Background(), access)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Leaking faucet", orders[0].Title)
}

func TestListWithoutViewPermissionsIsEmpty(t *testing.T) {
	repo := newMockRepository()
	seedOrders(t, repo)
	svc := NewService(repo)

	access := accessWith(t, "u1", authz.RolePending, nil)
	orders, err := svc.List(context.Background(), access)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateDefaultsToOpenNormal(t *testing.T) {
	svc := NewService(newMockRepository())

	wo, err := svc.Create(context.Background(), CreateInput{PropertyID: 1, Title: "  Paint hallway  "})
	require.NoError(t, err)
	assert.Equal(t, "Paint hallway", wo.Title)
	assert.Equal(t, StatusOpen, wo.Status)
	assert.Equal(t, PriorityNormal, wo.Priority)
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateInput{PropertyID: 1, Title: "   "})
	assert.Error(t, err)
}

func TestUpdateStatusMachine(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	wo, err := svc.Create(context.Background(), CreateInput{PropertyID: 1, Title: "Regrout tile"})
	require.NoError(t, err)

	done := StatusDone
	_, err = svc.Update(context.Background(), wo.ID, UpdateInput{Status: &done})
	assert.Error(t, err, "open cannot jump straight to done")

	inProgress := StatusInProgress
	wo2, err := svc.Update(context.Background(), wo.ID, UpdateInput{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, wo2.Status)

	wo3, err := svc.Update(context.Background(), wo.ID, UpdateInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, StatusDone, wo3.Status)
	require.NotNil(t, wo3.CompletedAt)
}

func TestUpdateClearAssign(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	assignee := "u1"
	wo, err := svc.Create(context.Background(), CreateInput{PropertyID: 1, Title: "Mow lawn", AssignedTo: &assignee})
	require.NoError(t, err)

	wo2, err := svc.Update(context.Background(), wo.ID, UpdateInput{ClearAssign: true})
	require.NoError(t, err)
	assert.Nil(t, wo2.AssignedTo)
}
