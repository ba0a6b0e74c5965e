package workorders

import "context"

// RepositoryPort defines data access methods for work orders.
type RepositoryPort interface {
	List(ctx context.Context) ([]WorkOrder, error)
	Get(ctx context.Context, id int64) (WorkOrder, error)
	Create(ctx context.Context, wo WorkOrder) (WorkOrder, error)
	Update(ctx context.Context, wo WorkOrder) (WorkOrder, error)
	Delete(ctx context.Context, id int64) error
}
