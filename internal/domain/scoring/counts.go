package scoring

import (
	"strconv"
	"strings"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
)

// ScoreKey renders a scoreline as the population-count key, "home-away".
func ScoreKey(s fixture.Score) string {
	return strconv.Itoa(s.Home) + "-" + strconv.Itoa(s.Away)
}

// BuildCounts aggregates the full prediction set of one fixture into the
// two frequency maps the calculator's alone/shared tiers depend on. It
// must see the complete population before any single prediction is scored:
// the tiers are derived from this global snapshot, not from cumulative
// state.
func BuildCounts(preds []prediction.Prediction) (scoreCounts, playerCounts map[string]int) {
	scoreCounts = make(map[string]int, len(preds))
	playerCounts = make(map[string]int)

	for _, p := range preds {
		scoreCounts[ScoreKey(p.PredictedScore)]++

		if strings.TrimSpace(p.PredictedPlayer) == "" {
			continue
		}
		playerCounts[NormalizeName(p.PredictedPlayer)]++
	}

	return scoreCounts, playerCounts
}
