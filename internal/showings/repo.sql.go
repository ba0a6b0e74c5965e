package showings

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

const showingColumns = `id, property_id, prospect_name, prospect_tel, scheduled_at, outcome, notes, assigned_to, created_at, updated_at`

func scanShowing(row pgx.Row) (Showing, error) {
	var s Showing
	err := row.Scan(&s.ID, &s.PropertyID, &s.ProspectName, &s.ProspectTel, &s.ScheduledAt,
		&s.Outcome, &s.Notes, &s.AssignedTo, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Showing{}, shared.ErrNotFound
		}
		return Showing{}, err
	}
	return s, nil
}

// List returns all showings ordered by schedule.
func (r *Repository) List(ctx context.Context) ([]Showing, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+showingColumns+` FROM showings ORDER BY scheduled_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var showings []Showing
	for rows.Next() {
		var s Showing
		if err := rows.Scan(&s.ID, &s.PropertyID, &s.ProspectName, &s.ProspectTel, &s.ScheduledAt,
			&s.Outcome, &s.Notes, &s.AssignedTo, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		showings = append(showings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return showings, nil
}

// Get fetches a showing by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Showing, error) {
	return scanShowing(r.pool.QueryRow(ctx, `SELECT `+showingColumns+` FROM showings WHERE id = $1`, id))
}

// Create inserts a new showing.
func (r *Repository) Create(ctx context.Context, s Showing) (Showing, error) {
	return scanShowing(r.pool.QueryRow(ctx,
		`INSERT INTO showings (property_id, prospect_name, prospect_tel, scheduled_at, outcome, notes, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		 RETURNING `+showingColumns,
		s.PropertyID, s.ProspectName, s.ProspectTel, s.ScheduledAt, s.Outcome, s.Notes, s.AssignedTo))
}

// Update rewrites the mutable columns of an existing showing.
func (r *Repository) Update(ctx context.Context, s Showing) (Showing, error) {
	return scanShowing(r.pool.QueryRow(ctx,
		`UPDATE showings
		 SET prospect_name = $2, prospect_tel = $3, scheduled_at = $4, outcome = $5, notes = $6, assigned_to = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+showingColumns,
		s.ID, s.ProspectName, s.ProspectTel, s.ScheduledAt, s.Outcome, s.Notes, s.AssignedTo))
}

// Delete removes a showing by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM showings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
