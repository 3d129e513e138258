package memory

import (
	"context"
	"fmt"

	"github.com/bolao-app/bolao-api/internal/domain/season"
)

type SeasonRepository struct {
	store *Store
}

func (r *SeasonRepository) GetByID(_ context.Context, id string) (season.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.seasons[id]
	if !ok {
		return season.Season{}, false, nil
	}

	return cloneSeason(item), true, nil
}

func (r *SeasonRepository) GetActive(_ context.Context) (season.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.seasonOrder {
		item := r.store.seasons[id]
		if item.IsActive() {
			return cloneSeason(item), true, nil
		}
	}

	return season.Season{}, false, nil
}

func (r *SeasonRepository) ListAll(_ context.Context) ([]season.Season, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]season.Season, 0, len(r.store.seasonOrder))
	for _, id := range r.store.seasonOrder {
		out = append(out, cloneSeason(r.store.seasons[id]))
	}

	return out, nil
}

func (r *SeasonRepository) Create(_ context.Context, item season.Season) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.seasons[item.ID]; ok {
		return fmt.Errorf("season %s already exists", item.ID)
	}

	r.store.seasons[item.ID] = cloneSeason(item)
	r.store.seasonOrder = append(r.store.seasonOrder, item.ID)
	return nil
}
