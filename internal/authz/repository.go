package authz

import "context"

// RepositoryPort defines data access for the permission tables.
type RepositoryPort interface {
	ListRoleDefaults(ctx context.Context) ([]RoleDefault, error)
	ListUserOverrides(ctx context.Context) ([]UserOverride, error)
	InsertOverride(ctx context.Context, o UserOverride) error
	UpdateOverride(ctx context.Context, o UserOverride) error
}
