package inspections

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

const inspectionColumns = `id, property_id, unit_id, kind, status, scheduled_at, completed_at, findings, assigned_to, created_at, updated_at`

func scanInspection(row pgx.Row) (Inspection, error) {
	var i Inspection
	err := row.Scan(&i.ID, &i.PropertyID, &i.UnitID, &i.Kind, &i.Status, &i.ScheduledAt,
		&i.CompletedAt, &i.Findings, &i.AssignedTo, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inspection{}, shared.ErrNotFound
		}
		return Inspection{}, err
	}
	return i, nil
}

// List returns all inspections ordered by schedule.
func (r *Repository) List(ctx context.Context) ([]Inspection, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+inspectionColumns+` FROM inspections ORDER BY scheduled_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var inspections []Inspection
	for rows.Next() {
		var i Inspection
		if err := rows.Scan(&i.ID, &i.PropertyID, &i.UnitID, &i.Kind, &i.Status, &i.ScheduledAt,
			&i.CompletedAt, &i.Findings, &i.AssignedTo, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		inspections = append(inspections, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inspections, nil
}

// Get fetches an inspection by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Inspection, error) {
	return scanInspection(r.pool.QueryRow(ctx, `SELECT `+inspectionColumns+` FROM inspections WHERE id = $1`, id))
}

// Create inserts a new inspection.
func (r *Repository) Create(ctx context.Context, i Inspection) (Inspection, error) {
	return scanInspection(r.pool.QueryRow(ctx,
		`INSERT INTO inspections (property_id, unit_id, kind, status, scheduled_at, completed_at, findings, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		 RETURNING `+inspectionColumns,
		i.PropertyID, i.UnitID, i.Kind, i.Status, i.ScheduledAt, i.CompletedAt, i.Findings, i.AssignedTo))
}

// Update rewrites the mutable columns of an existing inspection.
func (r *Repository) Update(ctx context.Context, i Inspection) (Inspection, error) {
	return scanInspection(r.pool.QueryRow(ctx,
		`UPDATE inspections
		 SET kind = $2, status = $3, scheduled_at = $4, completed_at = $5, findings = $6, assigned_to = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+inspectionColumns,
		i.ID, i.Kind, i.Status, i.ScheduledAt, i.CompletedAt, i.Findings, i.AssignedTo))
}

// Delete removes an inspection by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inspections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
