package usecase

import (
	"testing"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	"github.com/bolao-app/bolao-api/internal/domain/season"
	"github.com/bolao-app/bolao-api/internal/infrastructure/repository/memory"
	"github.com/bolao-app/bolao-api/internal/platform/id"
	"github.com/bolao-app/bolao-api/internal/platform/logging"
)

type testEnv struct {
	store       *memory.Store
	scoring     *ScoringService
	fixtures    *FixtureService
	seasons     *SeasonService
	predictions *PredictionService
	rankings    *RankingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithWriter(t, nil)
}

// newTestEnvWithWriter wires every service against one shared in-memory
// store. A non-nil writer replaces the store as the batch sink, which lets
// tests inject failures between chunks.
func newTestEnvWithWriter(t *testing.T, writer ledger.Writer) *testEnv {
	t.Helper()

	store := memory.NewStore(0)
	store.Seed(memory.SeedUsers())
	if writer == nil {
		writer = store
	}

	logger := logging.NewNop()
	ids := id.NewRandomGenerator()

	scoringSvc := NewScoringService(store.Fixtures(), store.Predictions(), store.Seasons(), writer, logger)
	fixtureSvc := NewFixtureService(store.Fixtures(), store.Predictions(), store.Seasons(), writer, scoringSvc, ids, logger)
	rankingSvc := NewRankingService(store.Users())
	seasonSvc := NewSeasonService(store.Seasons(), store.Fixtures(), store.Users(), writer, rankingSvc, fixtureSvc, ids, logger)
	predictionSvc := NewPredictionService(store.Predictions(), store.Fixtures(), ids, logger)

	return &testEnv{
		store:       store,
		scoring:     scoringSvc,
		fixtures:    fixtureSvc,
		seasons:     seasonSvc,
		predictions: predictionSvc,
		rankings:    rankingSvc,
	}
}

func mustCreateSeason(t *testing.T, env *testEnv) season.Season {
	t.Helper()

	created, err := env.seasons.Create(t.Context(), "Temporada 2026", time.Time{}, "user_admin")
	if err != nil {
		t.Fatalf("create season failed: %v", err)
	}
	return created
}

func mustCreateFixture(t *testing.T, env *testEnv, opponent string) fixture.Fixture {
	t.Helper()

	fx, err := env.fixtures.Create(t.Context(), opponent, time.Now().Add(48*time.Hour), "user_admin")
	if err != nil {
		t.Fatalf("create fixture failed: %v", err)
	}
	return fx
}

func mustPlace(t *testing.T, env *testEnv, userID, fixtureID string, home, away int, player string) prediction.Prediction {
	t.Helper()

	placed, err := env.predictions.Place(t.Context(), PredictionInput{
		UserID:          userID,
		FixtureID:       fixtureID,
		PredictedScore:  fixture.Score{Home: home, Away: away},
		PredictedPlayer: player,
	})
	if err != nil {
		t.Fatalf("place prediction for %s failed: %v", userID, err)
	}
	return placed
}

func userPoints(t *testing.T, env *testEnv, userID string) int {
	t.Helper()

	u, exists, err := env.store.Users().GetByID(t.Context(), userID)
	if err != nil {
		t.Fatalf("get user %s failed: %v", userID, err)
	}
	if !exists {
		t.Fatalf("user %s not found", userID)
	}
	return u.TotalPoints
}

func userScorerMatches(t *testing.T, env *testEnv, userID string) int {
	t.Helper()

	u, exists, err := env.store.Users().GetByID(t.Context(), userID)
	if err != nil {
		t.Fatalf("get user %s failed: %v", userID, err)
	}
	if !exists {
		t.Fatalf("user %s not found", userID)
	}
	return u.ScorerMatches
}

func predictionPoints(t *testing.T, env *testEnv, predictionID string) (int, prediction.Breakdown) {
	t.Helper()

	p, exists, err := env.store.Predictions().GetByID(t.Context(), predictionID)
	if err != nil {
		t.Fatalf("get prediction %s failed: %v", predictionID, err)
	}
	if !exists {
		t.Fatalf("prediction %s not found", predictionID)
	}
	if p.PointsEarned == nil {
		t.Fatalf("prediction %s has not been scored", predictionID)
	}
	return *p.PointsEarned, p.Breakdown
}

// assertTotalsMatchStoredPoints walks the whole store and checks that
// the users' running totals add up to exactly the points written on the
// active season's live predictions. Any drift means a reconciliation or
// reversal leaked or double-counted a delta.
func assertTotalsMatchStoredPoints(t *testing.T, env *testEnv) {
	t.Helper()

	users, err := env.store.Users().ListAll(t.Context())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	userSum := 0
	for _, u := range users {
		userSum += u.TotalPoints
	}

	predictionSum := 0
	active, exists, err := env.store.Seasons().GetActive(t.Context())
	if err != nil {
		t.Fatalf("get active season failed: %v", err)
	}
	if exists {
		fixtures, err := env.store.Fixtures().ListBySeason(t.Context(), active.ID)
		if err != nil {
			t.Fatalf("list fixtures failed: %v", err)
		}
		for _, fx := range fixtures {
			preds, err := env.store.Predictions().ListByFixture(t.Context(), fx.ID)
			if err != nil {
				t.Fatalf("list predictions for %s failed: %v", fx.ID, err)
			}
			for _, p := range preds {
				predictionSum += p.Points()
			}
		}
	}

	if userSum != predictionSum {
		t.Fatalf("user totals drifted from stored prediction points: users=%d predictions=%d", userSum, predictionSum)
	}
}
