package season

import "context"

// Repository exposes season reads and creation. Ending and deleting a
// season are ledger ops.
type Repository interface {
	GetByID(ctx context.Context, id string) (Season, bool, error)
	GetActive(ctx context.Context) (Season, bool, error)
	ListAll(ctx context.Context) ([]Season, error)
	Create(ctx context.Context, s Season) error
}
