package workorders

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

const workOrderColumns = `id, property_id, unit_id, title, description, priority, status, assigned_to, created_at, updated_at, completed_at`

func scanWorkOrder(row pgx.Row) (WorkOrder, error) {
	var wo WorkOrder
	err := row.Scan(&wo.ID, &wo.PropertyID, &wo.UnitID, &wo.Title, &wo.Description, &wo.Priority,
		&wo.Status, &wo.AssignedTo, &wo.CreatedAt, &wo.UpdatedAt, &wo.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WorkOrder{}, shared.ErrNotFound
		}
		return WorkOrder{}, err
	}
	return wo, nil
}

// List returns all work orders, newest first. Visibility narrowing happens
// in the service via the permission gate, not in SQL.
func (r *Repository) List(ctx context.Context) ([]WorkOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workOrderColumns+` FROM work_orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []WorkOrder
	for rows.Next() {
		var wo WorkOrder
		if err := rows.Scan(&wo.ID, &wo.PropertyID, &wo.UnitID, &wo.Title, &wo.Description, &wo.Priority,
			&wo.Status, &wo.AssignedTo, &wo.CreatedAt, &wo.UpdatedAt, &wo.CompletedAt); err != nil {
			return nil, err
		}
		orders = append(orders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get fetches a work order by ID.
func (r *Repository) Get(ctx context.Context, id int64) (WorkOrder, error) {
	return scanWorkOrder(r.pool.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id))
}

// Create inserts a new work order.
func (r *Repository) Create(ctx context.Context, wo WorkOrder) (WorkOrder, error) {
	return scanWorkOrder(r.pool.QueryRow(ctx,
		`INSERT INTO work_orders (property_id, unit_id, title, description, priority, status, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		 RETURNING `+workOrderColumns,
		wo.PropertyID, wo.UnitID, wo.Title, wo.Description, wo.Priority, wo.Status, wo.AssignedTo))
}

// Update rewrites the mutable columns of an existing work order.
func (r *Repository) Update(ctx context.Context, wo WorkOrder) (WorkOrder, error) {
	return scanWorkOrder(r.pool.QueryRow(ctx,
		`UPDATE work_orders
		 SET title = $2, description = $3, priority = $4, status = $5, assigned_to = $6, completed_at = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+workOrderColumns,
		wo.ID, wo.Title, wo.Description, wo.Priority, wo.Status, wo.AssignedTo, wo.CompletedAt))
}

// Delete removes a work order by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
