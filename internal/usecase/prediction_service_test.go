package usecase

import (
	"errors"
	"testing"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
)

func TestPredictionService_Place_Valid(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")

	placed := mustPlace(t, env, "user_rafa", fx.ID, 2, 1, "  Vina  ")
	if placed.PredictedPlayer != "Vina" {
		t.Fatalf("predicted player got=%q want=%q", placed.PredictedPlayer, "Vina")
	}
	if placed.Scored() {
		t.Fatal("fresh prediction must not carry points")
	}

	stored, err := env.fixtures.GetByID(t.Context(), fx.ID)
	if err != nil {
		t.Fatalf("get fixture failed: %v", err)
	}
	if stored.TotalPredictions != 1 {
		t.Fatalf("fixture prediction count got=%d want=1", stored.TotalPredictions)
	}
}

func TestPredictionService_Place_OnePerUserPerFixture(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")
	mustPlace(t, env, "user_rafa", fx.ID, 2, 1, "")

	_, err := env.predictions.Place(t.Context(), PredictionInput{
		UserID:         "user_rafa",
		FixtureID:      fx.ID,
		PredictedScore: fixture.Score{Home: 1, Away: 0},
	})
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestPredictionService_Place_RejectsPredictedLoss(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")

	cases := []struct {
		name  string
		score fixture.Score
	}{
		{name: "home loss", score: fixture.Score{Home: 1, Away: 2}},
		{name: "negative goals", score: fixture.Score{Home: -1, Away: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.predictions.Place(t.Context(), PredictionInput{
				UserID:         "user_rafa",
				FixtureID:      fx.ID,
				PredictedScore: tc.score,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPredictionService_Place_ClosedFixture(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")

	locked := fixture.StatusLocked
	if _, err := env.fixtures.Update(t.Context(), fx.ID, FixtureUpdate{Status: &locked}); err != nil {
		t.Fatalf("lock fixture failed: %v", err)
	}

	_, err := env.predictions.Place(t.Context(), PredictionInput{
		UserID:         "user_rafa",
		FixtureID:      fx.ID,
		PredictedScore: fixture.Score{Home: 1, Away: 0},
	})
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestPredictionService_Update_ReplacesGuessWhileOpen(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")
	placed := mustPlace(t, env, "user_rafa", fx.ID, 2, 1, "Vina")

	updated, err := env.predictions.Update(t.Context(), placed.ID, PredictionInput{
		UserID:          "user_rafa",
		FixtureID:       fx.ID,
		PredictedScore:  fixture.Score{Home: 3, Away: 0},
		PredictedPlayer: "Zanocello",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PredictedScore != (fixture.Score{Home: 3, Away: 0}) {
		t.Fatalf("score got=%+v want=3-0", updated.PredictedScore)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("updated prediction must carry an update timestamp")
	}

	stored, err := env.fixtures.GetByID(t.Context(), fx.ID)
	if err != nil {
		t.Fatalf("get fixture failed: %v", err)
	}
	if stored.TotalPredictions != 1 {
		t.Fatalf("editing must not change the prediction count, got=%d", stored.TotalPredictions)
	}
}

func TestPredictionService_Update_RejectsOtherUsersPrediction(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")
	placed := mustPlace(t, env, "user_rafa", fx.ID, 2, 1, "")

	_, err := env.predictions.Update(t.Context(), placed.ID, PredictionInput{
		UserID:         "user_carol",
		FixtureID:      fx.ID,
		PredictedScore: fixture.Score{Home: 1, Away: 0},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPredictionService_ListByFixture(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")
	other := mustCreateFixture(t, env, "Avai")

	mustPlace(t, env, "user_rafa", fx.ID, 2, 1, "")
	mustPlace(t, env, "user_carol", fx.ID, 1, 0, "")
	mustPlace(t, env, "user_rafa", other.ID, 1, 1, "")

	preds, err := env.predictions.ListByFixture(t.Context(), fx.ID)
	if err != nil {
		t.Fatalf("list by fixture failed: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("prediction count got=%d want=2", len(preds))
	}

	mine, err := env.predictions.ListByUser(t.Context(), "user_rafa")
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("user prediction count got=%d want=2", len(mine))
	}
}
