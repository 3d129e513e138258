package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
)

type FixtureRepository struct {
	store *Store
}

func (r *FixtureRepository) GetByID(_ context.Context, id string) (fixture.Fixture, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	f, ok := r.store.fixtures[id]
	if !ok {
		return fixture.Fixture{}, false, nil
	}

	return cloneFixture(f), true, nil
}

func (r *FixtureRepository) ListAll(_ context.Context) ([]fixture.Fixture, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.store.fixtureOrder))
	for _, id := range r.store.fixtureOrder {
		out = append(out, cloneFixture(r.store.fixtures[id]))
	}

	return out, nil
}

func (r *FixtureRepository) ListBySeason(_ context.Context, seasonID string) ([]fixture.Fixture, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []fixture.Fixture
	for _, id := range r.store.fixtureOrder {
		f := r.store.fixtures[id]
		if f.SeasonID == seasonID {
			out = append(out, cloneFixture(f))
		}
	}

	return out, nil
}

func (r *FixtureRepository) ListUpcoming(_ context.Context, now time.Time) ([]fixture.Fixture, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []fixture.Fixture
	for _, id := range r.store.fixtureOrder {
		f := r.store.fixtures[id]
		if f.Status == fixture.StatusOpen && now.Before(f.KickoffAt) {
			out = append(out, cloneFixture(f))
		}
	}

	return out, nil
}

func (r *FixtureRepository) Create(_ context.Context, f fixture.Fixture) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.fixtures[f.ID]; ok {
		return fmt.Errorf("fixture %s already exists", f.ID)
	}

	r.store.fixtures[f.ID] = cloneFixture(f)
	r.store.fixtureOrder = append(r.store.fixtureOrder, f.ID)
	return nil
}

func (r *FixtureRepository) Update(_ context.Context, f fixture.Fixture) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.fixtures[f.ID]
	if !ok {
		return fmt.Errorf("fixture %s not found", f.ID)
	}

	// The prediction counter is owned by the store, not by callers.
	f.TotalPredictions = existing.TotalPredictions
	r.store.fixtures[f.ID] = cloneFixture(f)
	return nil
}
