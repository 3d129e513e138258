package prediction

import "context"

// Repository exposes prediction reads plus the submission-time writes.
// Scoring writes and deletions are ledger ops so they can share an atomic
// batch with the matching user counter increments.
type Repository interface {
	GetByID(ctx context.Context, id string) (Prediction, bool, error)
	GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (Prediction, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Prediction, error)
	ListByUser(ctx context.Context, userID string) ([]Prediction, error)
	Create(ctx context.Context, p Prediction) error
	Update(ctx context.Context, p Prediction) error
}
