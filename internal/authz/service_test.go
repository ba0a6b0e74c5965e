package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	defaults  []RoleDefault
	overrides []UserOverride

	listDefaultsErr error
	insertErr       error
	updateErr       error

	inserted []UserOverride
	updated  []UserOverride
}

func (m *mockRepository) ListRoleDefaults(ctx context.Context) ([]RoleDefault, error) {
	if m.listDefaultsErr != nil {
		return nil, m.listDefaultsErr
	}
	return m.defaults, nil
}

func (m *mockRepository) ListUserOverrides(ctx context.Context) ([]UserOverride, error) {
	return m.overrides, nil
}

func (m *mockRepository) InsertOverride(ctx context.Context, o UserOverride) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, o)
	m.overrides = append(m.overrides, o)
	return nil
}

func (m *mockRepository) UpdateOverride(ctx context.Context, o UserOverride) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, o)
	for i := range m.overrides {
		if m.overrides[i].UserID == o.UserID && m.overrides[i].Code == o.Code {
			m.overrides[i].Allowed = o.Allowed
		}
	}
	return nil
}

func TestServiceToggleInsertsFirstOverride(t *testing.T) {
	repo := &mockRepository{
		defaults: []RoleDefault{{Role: RolePropertyManager, Code: "work_orders.edit", Allowed: false}},
	}
	svc := NewService(repo, nil, nil)

	override, err := svc.Toggle(context.Background(), "admin", "u2", "work_orders.edit", false)
	require.NoError(t, err)
	assert.True(t, override.Allowed)
	require.Len(t, repo.inserted, 1)
	assert.Empty(t, repo.updated)
}

func TestServiceToggleFlipsExistingOverride(t *testing.T) {
	repo := &mockRepository{
		overrides: []UserOverride{{UserID: "u1", Code: "showings.create", Allowed: true}},
	}
	svc := NewService(repo, nil, nil)

	override, err := svc.Toggle(context.Background(), "admin", "u1", "showings.create", true)
	require.NoError(t, err)
	assert.False(t, override.Allowed)
	require.Len(t, repo.updated, 1)
	assert.Empty(t, repo.inserted)
}

func TestServiceToggleRejectsUnknownCode(t *testing.T) {
	svc := NewService(&mockRepository{}, nil, nil)

	_, err := svc.Toggle(context.Background(), "admin", "u1", "nope.nope", false)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestServiceToggleWriteFailureLeavesStateIntact(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &mockRepository{insertErr: boom}
	svc := NewService(repo, nil, nil)

	_, err := svc.Toggle(context.Background(), "admin", "u1", "work_orders.edit", false)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, repo.inserted)

	// The stored tables still resolve exactly as before the attempt.
	rs, err := svc.Ruleset(context.Background())
	require.NoError(t, err)
	d := rs.Resolve("u1", RolePropertyManager, "work_orders.edit")
	assert.False(t, d.Allowed)
	assert.Equal(t, SourceNone, d.Source)
}

func TestServiceMatrixResolvesWholeCatalog(t *testing.T) {
	repo := &mockRepository{
		defaults:  []RoleDefault{{Role: RolePropertyManager, Code: "showings.view_own", Allowed: true}},
		overrides: []UserOverride{{UserID: "u1", Code: "showings.view_all", Allowed: true}},
	}
	svc := NewService(repo, nil, nil)

	cells, err := svc.Matrix(context.Background(), "u1", RolePropertyManager)
	require.NoError(t, err)
	require.Len(t, cells, len(Catalog()))

	bySource := map[string]Source{}
	for _, c := range cells {
		bySource[c.Code] = c.Source
	}
	assert.Equal(t, SourceUser, bySource["showings.view_all"])
	assert.Equal(t, SourceRole, bySource["showings.view_own"])
	assert.Equal(t, SourceNone, bySource["court_dates.view_all"])
}

func TestServiceRulesetPropagatesLoadError(t *testing.T) {
	repo := &mockRepository{listDefaultsErr: errors.New("db down")}
	svc := NewService(repo, nil, nil)

	_, err := svc.Ruleset(context.Background())
	assert.Error(t, err)
}
