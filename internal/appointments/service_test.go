package appointments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haven-pm/haven-pm/internal/shared"
)

type mockRepository struct {
	appts  map[int64]*Appointment
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{appts: make(map[int64]*Appointment), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context) ([]Appointment, error) {
	out := make([]Appointment, 0, len(m.appts))
	for _, a := range m.appts {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return Appointment{}, shared.ErrNotFound
	}
	return *a, nil
}

func (m *mockRepository) Create(ctx context.Context, a Appointment) (Appointment, error) {
	a.ID = m.nextID
	m.nextID++
	m.appts[a.ID] = &a
	return a, nil
}

func (m *mockRepository) Update(ctx context.Context, a Appointment) (Appointment, error) {
	if _, ok := m.appts[a.ID]; !ok {
		return Appointment{}, shared.ErrNotFound
	}
	m.appts[a.ID] = &a
	return a, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.appts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

type mockEnqueuer struct {
	err      error
	ids      []int64
	remindAt []time.Time
}

func (m *mockEnqueuer) EnqueueAppointmentReminder(ctx context.Context, appointmentID int64, remindAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.ids = append(m.ids, appointmentID)
	m.remindAt = append(m.remindAt, remindAt)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateSchedulesReminderHourBefore(t *testing.T) {
	enq := &mockEnqueuer{}
	svc := NewService(newMockRepository(), enq, testLogger())

	start := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	appt, err := svc.Create(context.Background(), CreateInput{Title: "Lease signing", ScheduledAt: start})
	require.NoError(t, err)

	require.Len(t, enq.ids, 1)
	assert.Equal(t, appt.ID, enq.ids[0])
	assert.Equal(t, start.Add(-time.Hour), enq.remindAt[0])
}

func TestCreateSurvivesEnqueueFailure(t *testing.T) {
	repo := newMockRepository()
	enq := &mockEnqueuer{err: errors.New("broker down")}
	svc := NewService(repo, enq, testLogger())

	appt, err := svc.Create(context.Background(), CreateInput{
		Title: "Unit walkthrough", ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err, "reminder enqueue failure must not fail the create")
	_, ok := repo.appts[appt.ID]
	assert.True(t, ok)
}

func TestCreateWithoutEnqueuer(t *testing.T) {
	svc := NewService(newMockRepository(), nil, testLogger())

	_, err := svc.Create(context.Background(), CreateInput{
		Title: "Vendor call", ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.NoError(t, err)
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	svc := NewService(newMockRepository(), nil, testLogger())

	_, err := svc.Create(context.Background(), CreateInput{Title: "  ", ScheduledAt: time.Now()})
	assert.Error(t, err)
}
