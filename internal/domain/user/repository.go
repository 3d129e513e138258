package user

import "context"

// Repository exposes user reads. Counter mutations are ledger increments.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, bool, error)
	ListAll(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) error
}
