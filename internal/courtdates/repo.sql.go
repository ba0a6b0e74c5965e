package courtdates

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

const courtDateColumns = `id, property_id, tenant_id, case_number, courtroom, hearing_at, outcome, notes, assigned_to, created_at, updated_at`

func scanCourtDate(row pgx.Row) (CourtDate, error) {
	var c CourtDate
	err := row.Scan(&c.ID, &c.PropertyID, &c.TenantID, &c.CaseNumber, &c.Courtroom, &c.HearingAt,
		&c.Outcome, &c.Notes, &c.AssignedTo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CourtDate{}, shared.ErrNotFound
		}
		return CourtDate{}, err
	}
	return c, nil
}

// List returns all court dates ordered by hearing time.
func (r *Repository) List(ctx context.Context) ([]CourtDate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+courtDateColumns+` FROM court_dates ORDER BY hearing_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dates []CourtDate
	for rows.Next() {
		var c CourtDate
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.TenantID, &c.CaseNumber, &c.Courtroom, &c.HearingAt,
			&c.Outcome, &c.Notes, &c.AssignedTo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		dates = append(dates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dates, nil
}

// Get fetches a court date by ID.
func (r *Repository) Get(ctx context.Context, id int64) (CourtDate, error) {
	return scanCourtDate(r.pool.QueryRow(ctx, `SELECT `+courtDateColumns+` FROM court_dates WHERE id = $1`, id))
}

// Create inserts a new court date.
func (r *Repository) Create(ctx context.Context, c CourtDate) (CourtDate, error) {
	return scanCourtDate(r.pool.QueryRow(ctx,
		`INSERT INTO court_dates (property_id, tenant_id, case_number, courtroom, hearing_at, outcome, notes, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		 RETURNING `+courtDateColumns,
		c.PropertyID, c.TenantID, c.CaseNumber, c.Courtroom, c.HearingAt, c.Outcome, c.Notes, c.AssignedTo))
}

// Update rewrites the mutable columns of an existing court date.
func (r *Repository) Update(ctx context.Context, c CourtDate) (CourtDate, error) {
	return scanCourtDate(r.pool.QueryRow(ctx,
		`UPDATE court_dates
		 SET case_number = $2, courtroom = $3, hearing_at = $4, outcome = $5, notes = $6, assigned_to = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+courtDateColumns,
		c.ID, c.CaseNumber, c.Courtroom, c.HearingAt, c.Outcome, c.Notes, c.AssignedTo))
}

// Delete removes a court date by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM court_dates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
