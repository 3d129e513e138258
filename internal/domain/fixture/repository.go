package fixture

import (
	"context"
	"time"
)

// Repository exposes fixture reads and the writes that do not need the
// ledger. Result setting and deletion mutate user counters alongside the
// fixture and therefore go through ledger ops instead.
type Repository interface {
	GetByID(ctx context.Context, id string) (Fixture, bool, error)
	ListAll(ctx context.Context) ([]Fixture, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Fixture, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]Fixture, error)
	Create(ctx context.Context, f Fixture) error
	Update(ctx context.Context, f Fixture) error
}
