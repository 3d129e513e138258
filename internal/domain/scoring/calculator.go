package scoring

import (
	"strings"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
)

const (
	ResultWin  = "win"
	ResultDraw = "draw"
	ResultLoss = "loss"
)

// Per-bonus point rates. The alone tier fires when exactly one prediction
// in the fixture's population carries the matching value.
const (
	pointsExactScoreAlone = 4
	pointsExactScore      = 2
	pointsWinOrDraw       = 1
	pointsScorerAlone     = 4
	pointsScorerShared    = 2
	pointsAssistAlone     = 2
	pointsAssistShared    = 1
)

// Outcome is the calculated value of one prediction.
type Outcome struct {
	Points    int
	Breakdown prediction.Breakdown
}

// ResultOf classifies a scoreline from the home side's point of view.
func ResultOf(s fixture.Score) string {
	switch {
	case s.Home > s.Away:
		return ResultWin
	case s.Home == s.Away:
		return ResultDraw
	default:
		return ResultLoss
	}
}

// CalculatePoints scores one prediction against the recorded result using
// the fixture-wide frequency snapshots. Pure and deterministic: the same
// inputs always produce the same outcome, so reconciliation can re-run it
// freely and diff against stored values.
func CalculatePoints(p prediction.Prediction, r fixture.Result, scoreCounts, playerCounts map[string]int) Outcome {
	breakdown := prediction.Breakdown{}
	points := 0

	exactScore := p.PredictedScore == r.ActualScore
	matchedResult := ResultOf(p.PredictedScore) == ResultOf(r.ActualScore)

	if exactScore {
		if scoreCounts[ScoreKey(p.PredictedScore)] == 1 {
			breakdown[prediction.BonusExactScoreAlone] = pointsExactScoreAlone
			points += pointsExactScoreAlone
		} else {
			breakdown[prediction.BonusExactScore] = pointsExactScore
			points += pointsExactScore
		}
	} else if matchedResult {
		breakdown[prediction.BonusWinOrDraw] = pointsWinOrDraw
		points += pointsWinOrDraw
	}

	predictedPlayer := strings.TrimSpace(p.PredictedPlayer)
	if predictedPlayer != "" && (len(r.ActualScorers) > 0 || len(r.ActualAssists) > 0) {
		playerKey := NormalizeName(predictedPlayer)
		// One uniqueness flag per prediction, shared by the scorer and
		// assist tiers: both read the same population snapshot.
		isOnlyOne := playerCounts[playerKey] == 1

		if goals := countOccurrences(r.ActualScorers, playerKey); goals > 0 {
			if isOnlyOne {
				breakdown[prediction.BonusMatchedScorerAlone] = pointsScorerAlone * goals
				points += pointsScorerAlone * goals
			} else {
				breakdown[prediction.BonusMatchedScorer] = pointsScorerShared * goals
				points += pointsScorerShared * goals
			}
		}

		if assists := countOccurrences(r.ActualAssists, playerKey); assists > 0 {
			if isOnlyOne {
				breakdown[prediction.BonusMatchedAssistAlone] = pointsAssistAlone * assists
				points += pointsAssistAlone * assists
			} else {
				breakdown[prediction.BonusMatchedAssist] = pointsAssistShared * assists
				points += pointsAssistShared * assists
			}
		}
	}

	return Outcome{Points: points, Breakdown: breakdown}
}

// countOccurrences counts how many entries of names normalize to key.
// Duplicates are meaningful: each occurrence is a separate goal or assist.
func countOccurrences(names []string, key string) int {
	count := 0
	for _, name := range names {
		if NormalizeName(name) == key {
			count++
		}
	}
	return count
}
