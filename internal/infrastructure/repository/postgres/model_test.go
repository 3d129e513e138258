package postgres

import (
	"database/sql"
	"testing"

	"github.com/bolao-app/bolao-api/internal/domain/season"
)

func TestFixtureModelResultPresence(t *testing.T) {
	t.Run("no stored goals means no result", func(t *testing.T) {
		m := fixtureTableModel{ID: "fx_1", Status: "open"}
		if m.toDomain().HasResult() {
			t.Fatal("fixture without actual goals must not carry a result")
		}
	})

	t.Run("stored goals decode into a result", func(t *testing.T) {
		m := fixtureTableModel{
			ID:            "fx_1",
			Status:        "finished",
			ActualHome:    sql.NullInt64{Int64: 2, Valid: true},
			ActualAway:    sql.NullInt64{Int64: 0, Valid: true},
			ActualScorers: []string{"Vina", "Vina"},
		}
		fx := m.toDomain()
		if !fx.HasResult() {
			t.Fatal("expected a decoded result")
		}
		if fx.Result.ActualScore.Home != 2 || fx.Result.ActualScore.Away != 0 {
			t.Fatalf("unexpected score: %+v", fx.Result.ActualScore)
		}
		if len(fx.Result.ActualScorers) != 2 {
			t.Fatalf("scorer occurrences got=%d want=2", len(fx.Result.ActualScorers))
		}
	})
}

func TestFinalRankingsRoundTrip(t *testing.T) {
	rankings := []season.FinalRanking{
		{UserID: "user_rafa", Username: "rafa", TotalPoints: 10, Rank: 1},
		{UserID: "user_carol", Username: "carol", TotalPoints: 2, Rank: 2},
	}

	encoded, err := encodeFinalRankings(rankings)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := seasonTableModel{ID: "season_1", FinalRankings: encoded}.toDomain()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.FinalRankings) != 2 {
		t.Fatalf("rankings size got=%d want=2", len(decoded.FinalRankings))
	}
	if decoded.FinalRankings[0] != rankings[0] {
		t.Fatalf("rankings[0] got=%+v want=%+v", decoded.FinalRankings[0], rankings[0])
	}
}

func TestEncodeFinalRankingsEmptyStaysNull(t *testing.T) {
	encoded, err := encodeFinalRankings(nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if encoded != nil {
		t.Fatalf("empty rankings should encode to NULL, got %q", encoded)
	}
}
