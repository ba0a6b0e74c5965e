package tenants

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

const tenantColumns = `id, name, email, phone, unit_id, created_at, updated_at`

func scanTenant(row pgx.Row) (Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.UnitID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, shared.ErrNotFound
		}
		return Tenant{}, err
	}
	return t, nil
}

// List returns all tenants ordered by name.
func (r *Repository) List(ctx context.Context) ([]Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.UnitID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tenants, nil
}

// Get fetches a tenant by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

// Create inserts a new tenant.
func (r *Repository) Create(ctx context.Context, t Tenant) (Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx,
		`INSERT INTO tenants (name, email, phone, unit_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING `+tenantColumns,
		t.Name, t.Email, t.Phone, t.UnitID))
}

// Update rewrites the mutable columns of an existing tenant.
func (r *Repository) Update(ctx context.Context, t Tenant) (Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx,
		`UPDATE tenants
		 SET name = $2, email = $3, phone = $4, unit_id = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+tenantColumns,
		t.ID, t.Name, t.Email, t.Phone, t.UnitID))
}

// Delete removes a tenant by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const moveEventColumns = `id, tenant_id, unit_id, kind, scheduled_at, completed_at, checklist, created_at, updated_at`

func scanMoveEvent(row pgx.Row) (MoveEvent, error) {
	var e MoveEvent
	err := row.Scan(&e.ID, &e.TenantID, &e.UnitID, &e.Kind, &e.ScheduledAt,
		&e.CompletedAt, &e.Checklist, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MoveEvent{}, shared.ErrNotFound
		}
		return MoveEvent{}, err
	}
	return e, nil
}

// ListMoveEvents returns all move events of a tenant.
func (r *Repository) ListMoveEvents(ctx context.Context, tenantID int64) ([]MoveEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+moveEventColumns+` FROM move_events WHERE tenant_id = $1 ORDER BY scheduled_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []MoveEvent
	for rows.Next() {
		var e MoveEvent
		if err := rows.Scan(&e.ID, &e.TenantID, &e.UnitID, &e.Kind, &e.ScheduledAt,
			&e.CompletedAt, &e.Checklist, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GetMoveEvent fetches a move event by ID.
func (r *Repository) GetMoveEvent(ctx context.Context, id int64) (MoveEvent, error) {
	return scanMoveEvent(r.pool.QueryRow(ctx, `SELECT `+moveEventColumns+` FROM move_events WHERE id = $1`, id))
}

// CreateMoveEvent inserts a new move event.
func (r *Repository) CreateMoveEvent(ctx context.Context, e MoveEvent) (MoveEvent, error) {
	return scanMoveEvent(r.pool.QueryRow(ctx,
		`INSERT INTO move_events (tenant_id, unit_id, kind, scheduled_at, completed_at, checklist, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		 RETURNING `+moveEventColumns,
		e.TenantID, e.UnitID, e.Kind, e.ScheduledAt, e.CompletedAt, e.Checklist))
}

// UpdateMoveEvent rewrites the mutable columns of an existing move event.
func (r *Repository) UpdateMoveEvent(ctx context.Context, e MoveEvent) (MoveEvent, error) {
	return scanMoveEvent(r.pool.QueryRow(ctx,
		`UPDATE move_events
		 SET scheduled_at = $2, completed_at = $3, checklist = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+moveEventColumns,
		e.ID, e.ScheduledAt, e.CompletedAt, e.Checklist))
}
