package users

import "context"

// RepositoryPort defines data access methods for user profiles.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	SetRole(ctx context.Context, id, role string) error
	SetApproved(ctx context.Context, id string, approved bool) error
}
