package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
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

// ErrOverrideExists indicates an insert raced with an existing override row.
var ErrOverrideExists = errors.New("authz: override already exists")

// ListRoleDefaults returns every role default row.
func (r *Repository) ListRoleDefaults(ctx context.Context) ([]RoleDefault, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, permission_code, allowed FROM role_permissions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var defaults []RoleDefault
	for rows.Next() {
		var d RoleDefault
		if err := rows.Scan(&d.Role, &d.Code, &d.Allowed); err != nil {
			return nil, err
		}
		defaults = append(defaults, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return defaults, nil
}

// ListUserOverrides returns every user override row.
func (r *Repository) ListUserOverrides(ctx context.Context) ([]UserOverride, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, permission_code, allowed FROM user_permissions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var overrides []UserOverride
	for rows.Next() {
		var o UserOverride
		if err := rows.Scan(&o.UserID, &o.Code, &o.Allowed); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overrides, nil
}

// InsertOverride creates a new override row. The table carries a unique
// constraint on (user_id, permission_code); a violation surfaces as
// ErrOverrideExists.
func (r *Repository) InsertOverride(ctx context.Context, o UserOverride) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_permissions (user_id, permission_code, allowed) VALUES ($1, $2, $3)`,
		o.UserID, o.Code, o.Allowed)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrOverrideExists
		}
		return err
	}
	return nil
}

// UpdateOverride flips an existing override row in place.
func (r *Repository) UpdateOverride(ctx context.Context, o UserOverride) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_permissions SET allowed = $3 WHERE user_id = $1 AND permission_code = $2`,
		o.UserID, o.Code, o.Allowed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
