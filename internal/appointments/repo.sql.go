package appointments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haven-pm/haven-pm/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, title, with_whom, location, scheduled_at, notes, assigned_to, created_at, updated_at`

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.Title, &a.WithWhom, &a.Location, &a.ScheduledAt,
		&a.Notes, &a.AssignedTo, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, shared.ErrNotFound
		}
		return Appointment{}, err
	}
	return a, nil
}

// List returns all appointments ordered by schedule.
func (r *Repository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY scheduled_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var appointments []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.Title, &a.WithWhom, &a.Location, &a.ScheduledAt,
			&a.Notes, &a.AssignedTo, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Get fetches an appointment by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
}

// Create inserts a new appointment.
func (r *Repository) Create(ctx context.Context, a Appointment) (Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`INSERT INTO appointments (title, with_whom, location, scheduled_at, notes, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		 RETURNING `+appointmentColumns,
		a.Title, a.WithWhom, a.Location, a.ScheduledAt, a.Notes, a.AssignedTo))
}

// Update rewrites the mutable columns of an existing appointment.
func (r *Repository) Update(ctx context.Context, a Appointment) (Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET title = $2, with_whom = $3, location = $4, scheduled_at = $5, notes = $6, assigned_to = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+appointmentColumns,
		a.ID, a.Title, a.WithWhom, a.Location, a.ScheduledAt, a.Notes, a.AssignedTo))
}

// Delete removes an appointment by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
