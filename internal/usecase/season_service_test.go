package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/season"
)

func TestSeasonService_Create_SingleActiveSeason(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)

	_, err := env.seasons.Create(t.Context(), "Temporada 2027", time.Time{}, "user_admin")
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestSeasonService_End_SnapshotsRankingsAndResetsPoints(t *testing.T) {
	env := newTestEnv(t)
	fx, _ := seedScoredFixture(t, env)
	created, err := env.seasons.GetByID(t.Context(), fx.SeasonID)
	if err != nil {
		t.Fatalf("get season failed: %v", err)
	}

	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set result failed: %v", err)
	}

	ended, err := env.seasons.End(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("end season failed: %v", err)
	}
	if ended.Status != season.StatusEnded {
		t.Fatalf("season status got=%s want=%s", ended.Status, season.StatusEnded)
	}
	if len(ended.FinalRankings) != 5 {
		t.Fatalf("final rankings size got=%d want=5", len(ended.FinalRankings))
	}

	// Points descending, ties by username ascending.
	want := []season.FinalRanking{
		{UserID: "user_rafa", Username: "rafa", TotalPoints: 10, Rank: 1},
		{UserID: "user_dudu", Username: "dudu", TotalPoints: 3, Rank: 2},
		{UserID: "user_carol", Username: "carol", TotalPoints: 2, Rank: 3},
		{UserID: "user_mari", Username: "mari", TotalPoints: 0, Rank: 4},
		{UserID: "user_admin", Username: "organizador", TotalPoints: 0, Rank: 5},
	}
	for i, row := range want {
		if ended.FinalRankings[i] != row {
			t.Fatalf("ranking[%d] got=%+v want=%+v", i, ended.FinalRankings[i], row)
		}
	}

	// Rollover zeroes the running totals; the lifetime scorer-match
	// counter survives.
	for _, userID := range []string{"user_rafa", "user_carol", "user_dudu", "user_mari"} {
		if got := userPoints(t, env, userID); got != 0 {
			t.Fatalf("%s total after rollover got=%d want=0", userID, got)
		}
	}
	if got := userScorerMatches(t, env, "user_rafa"); got != 1 {
		t.Fatalf("rafa scorer matches after rollover got=%d want=1", got)
	}

	// The snapshot is immutable: ending again neither rewrites it nor
	// fails.
	again, err := env.seasons.End(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("second end failed: %v", err)
	}
	if again.FinalRankings[0] != want[0] {
		t.Fatalf("snapshot changed on re-run: %+v", again.FinalRankings[0])
	}
}

func TestSeasonService_End_AllowsFreshSeasonAfterwards(t *testing.T) {
	env := newTestEnv(t)
	created := mustCreateSeason(t, env)

	if _, err := env.seasons.End(t.Context(), created.ID); err != nil {
		t.Fatalf("end season failed: %v", err)
	}
	if _, err := env.seasons.Create(t.Context(), "Temporada 2027", time.Time{}, "user_admin"); err != nil {
		t.Fatalf("create next season failed: %v", err)
	}
}

func TestSeasonService_End_RejectsEndedSeasonAfterRollover(t *testing.T) {
	env := newTestEnv(t)
	fx, _ := seedScoredFixture(t, env)

	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set result failed: %v", err)
	}
	if _, err := env.seasons.End(t.Context(), fx.SeasonID); err != nil {
		t.Fatalf("end season failed: %v", err)
	}

	// The next season accrues its own points.
	if _, err := env.seasons.Create(t.Context(), "Temporada 2027", time.Time{}, "user_admin"); err != nil {
		t.Fatalf("create next season failed: %v", err)
	}
	next := mustCreateFixture(t, env, "Flamengo")
	mustPlace(t, env, "user_rafa", next.ID, 2, 1, "Vina")
	if err := env.scoring.SetResult(t.Context(), next.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set next result failed: %v", err)
	}
	before := userPoints(t, env, "user_rafa")
	if before == 0 {
		t.Fatal("expected rafa to have points in the new season")
	}

	// Re-posting end on the old season must not zero the new season's
	// running totals.
	if _, err := env.seasons.End(t.Context(), fx.SeasonID); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if got := userPoints(t, env, "user_rafa"); got != before {
		t.Fatalf("rafa total after rejected end got=%d want=%d", got, before)
	}
}

func TestSeasonService_Delete_CascadesThroughFixtures(t *testing.T) {
	env := newTestEnv(t)
	fx, _ := seedScoredFixture(t, env)

	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set result failed: %v", err)
	}

	if err := env.seasons.Delete(t.Context(), fx.SeasonID); err != nil {
		t.Fatalf("delete season failed: %v", err)
	}

	if _, err := env.seasons.GetByID(t.Context(), fx.SeasonID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted season, got %v", err)
	}
	if _, err := env.fixtures.GetByID(t.Context(), fx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cascaded fixture, got %v", err)
	}
	for _, userID := range []string{"user_rafa", "user_carol", "user_dudu"} {
		if got := userPoints(t, env, userID); got != 0 {
			t.Fatalf("%s total after season delete got=%d want=0", userID, got)
		}
	}
}
