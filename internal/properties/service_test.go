package properties

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haven-pm/haven-pm/internal/geo"
	"github.com/haven-pm/haven-pm/internal/shared"
)

type mockRepository struct {
	props    map[int64]*Property
	units    map[int64]*Unit
	nextID   int64
	coordErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{props: make(map[int64]*Property), units: make(map[int64]*Unit), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]Property, error) {
	all := make([]Property, 0, len(m.props))
	for _, p := range m.props {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Address < all[j].Address })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	return len(m.props), nil
}

func (m *mockRepository) ListMissingCoordinates(ctx context.Context, limit int) ([]Property, error) {
	var out []Property
	for _, p := range m.props {
		if p.Lat == nil && p.Status == StatusActive && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Property, error) {
	p, ok := m.props[id]
	if !ok {
		return Property{}, shared.ErrNotFound
	}
	return *p, nil
}

func (m *mockRepository) Create(ctx context.Context, p Property) (Property, error) {
	p.ID = m.nextID
	m.nextID++
	m.props[p.ID] = &p
	return p, nil
}

func (m *mockRepository) Update(ctx context.Context, p Property) (Property, error) {
	if _, ok := m.props[p.ID]; !ok {
		return Property{}, shared.ErrNotFound
	}
	m.props[p.ID] = &p
	return p, nil
}

func (m *mockRepository) SetCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	if m.coordErr != nil {
		return m.coordErr
	}
	p, ok := m.props[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Lat, p.Lng = &lat, &lng
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.props[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.props, id)
	return nil
}

func (m *mockRepository) ListUnits(ctx context.Context, propertyID int64) ([]Unit, error) {
	var out []Unit
	for _, u := range m.units {
		if u.PropertyID == propertyID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockRepository) GetUnit(ctx context.Context, id int64) (Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return Unit{}, shared.ErrNotFound
	}
	return *u, nil
}

func (m *mockRepository) CreateUnit(ctx context.Context, u Unit) (Unit, error) {
	u.ID = m.nextID
	m.nextID++
	m.units[u.ID] = &u
	return u, nil
}

func (m *mockRepository) UpdateUnit(ctx context.Context, u Unit) (Unit, error) {
	if _, ok := m.units[u.ID]; !ok {
		return Unit{}, shared.ErrNotFound
	}
	m.units[u.ID] = &u
	return u, nil
}

func (m *mockRepository) SetUnitOccupied(ctx context.Context, id int64, occupied bool) error {
	u, ok := m.units[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Occupied = occupied
	return nil
}

func (m *mockRepository) DeleteUnit(ctx context.Context, id int64) error {
	if _, ok := m.units[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.units, id)
	return nil
}

type stubGeocoder struct {
	coords geo.Coordinates
	err    error
	calls  int
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (geo.Coordinates, error) {
	g.calls++
	if g.err != nil {
		return geo.Coordinates{}, g.err
	}
	return g.coords, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateGeocodesAddress(t *testing.T) {
	repo := newMockRepository()
	gc := &stubGeocoder{coords: geo.Coordinates{Lat: 41.88, Lng: -87.63}}
	svc := NewService(repo, gc, testLogger())

	prop, err := svc.Create(context.Background(), CreateInput{Address: "100 Main St", City: "Chicago", State: "IL"})
	require.NoError(t, err)
	require.NotNil(t, prop.Lat)
	assert.InDelta(t, 41.88, *prop.Lat, 0.001)
	assert.Equal(t, StatusActive, prop.Status)
}

func TestCreateDegradesOnGeocodeFailure(t *testing.T) {
	repo := newMockRepository()
	gc := &stubGeocoder{err: errors.New("upstream down")}
	svc := NewService(repo, gc, testLogger())

	prop, err := svc.Create(context.Background(), CreateInput{Address: "100 Main St"})
	require.NoError(t, err, "geocode failure must not block the write")
	assert.Nil(t, prop.Lat)
	assert.Nil(t, prop.Lng)
}

func TestUpdateReaddressRegeocodes(t *testing.T) {
	repo := newMockRepository()
	gc := &stubGeocoder{coords: geo.Coordinates{Lat: 1, Lng: 2}}
	svc := NewService(repo, gc, testLogger())

	prop, err := svc.Create(context.Background(), CreateInput{Address: "100 Main St"})
	require.NoError(t, err)
	callsAfterCreate := gc.calls

	newAddr := "200 Oak Ave"
	_, err = svc.Update(context.Background(), prop.ID, UpdateInput{Address: &newAddr})
	require.NoError(t, err)
	assert.Equal(t, callsAfterCreate+1, gc.calls)

	// Unchanged address must not trigger another lookup.
	_, err = svc.Update(context.Background(), prop.ID, UpdateInput{Address: &newAddr})
	require.NoError(t, err)
	assert.Equal(t, callsAfterCreate+1, gc.calls)
}

func TestBackfillCoordinatesSkipsFailures(t *testing.T) {
	repo := newMockRepository()
	failing := &stubGeocoder{err: errors.New("nope")}
	svc := NewService(repo, failing, testLogger())

	_, err := svc.Create(context.Background(), CreateInput{Address: "100 Main St"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Address: "200 Oak Ave"})
	require.NoError(t, err)

	filled, err := svc.BackfillCoordinates(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, filled)

	working := &stubGeocoder{coords: geo.Coordinates{Lat: 3, Lng: 4}}
	svc2 := NewService(repo, working, testLogger())
	filled, err = svc2.BackfillCoordinates(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, filled)
}

func TestListPaginates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, testLogger())

	for _, addr := range []string{"100 Main St", "200 Oak Ave", "300 Pine Rd"} {
		_, err := svc.Create(context.Background(), CreateInput{Address: addr})
		require.NoError(t, err)
	}

	props, meta, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "300 Pine Rd", props[0].Address)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestCreateUnitRequiresProperty(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, testLogger())

	_, err := svc.CreateUnit(context.Background(), 99, UnitInput{Label: "1A"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
