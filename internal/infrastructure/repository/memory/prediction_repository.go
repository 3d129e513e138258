package memory

import (
	"context"
	"fmt"

	"github.com/bolao-app/bolao-api/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
}

func (r *PredictionRepository) GetByID(_ context.Context, id string) (prediction.Prediction, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.predictions[id]
	if !ok {
		return prediction.Prediction{}, false, nil
	}

	return clonePrediction(p), true, nil
}

func (r *PredictionRepository) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (prediction.Prediction, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.predictionOrder {
		p := r.store.predictions[id]
		if p.UserID == userID && p.FixtureID == fixtureID {
			return clonePrediction(p), true, nil
		}
	}

	return prediction.Prediction{}, false, nil
}

func (r *PredictionRepository) ListByFixture(_ context.Context, fixtureID string) ([]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []prediction.Prediction
	for _, id := range r.store.predictionOrder {
		p := r.store.predictions[id]
		if p.FixtureID == fixtureID {
			out = append(out, clonePrediction(p))
		}
	}

	return out, nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []prediction.Prediction
	for _, id := range r.store.predictionOrder {
		p := r.store.predictions[id]
		if p.UserID == userID {
			out = append(out, clonePrediction(p))
		}
	}

	return out, nil
}

func (r *PredictionRepository) Create(_ context.Context, p prediction.Prediction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.predictions[p.ID]; ok {
		return fmt.Errorf("prediction %s already exists", p.ID)
	}
	for _, id := range r.store.predictionOrder {
		existing := r.store.predictions[id]
		if existing.UserID == p.UserID && existing.FixtureID == p.FixtureID {
			return fmt.Errorf("prediction for user %s and fixture %s already exists", p.UserID, p.FixtureID)
		}
	}

	r.store.predictions[p.ID] = clonePrediction(p)
	r.store.predictionOrder = append(r.store.predictionOrder, p.ID)

	if f, ok := r.store.fixtures[p.FixtureID]; ok {
		f.TotalPredictions++
		r.store.fixtures[p.FixtureID] = f
	}

	return nil
}

func (r *PredictionRepository) Update(_ context.Context, p prediction.Prediction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.predictions[p.ID]; !ok {
		return fmt.Errorf("prediction %s not found", p.ID)
	}

	r.store.predictions[p.ID] = clonePrediction(p)
	return nil
}
