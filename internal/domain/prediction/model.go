package prediction

import (
	"errors"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
)

// Bonus kinds as stored in a prediction's breakdown. Only kinds that
// actually fired are present; zero-value entries are never written.
const (
	BonusExactScore         = "exactScore"
	BonusExactScoreAlone    = "exactScoreAlone"
	BonusWinOrDraw          = "winOrDraw"
	BonusMatchedScorer      = "matchedScorer"
	BonusMatchedScorerAlone = "matchedScorerAlone"
	BonusMatchedAssist      = "matchedAssist"
	BonusMatchedAssistAlone = "matchedAssistAlone"
)

var (
	ErrNegativeScore     = errors.New("predicted goals cannot be negative")
	ErrHomeMustWinOrDraw = errors.New("predicted score must be a win or draw for the home side")
)

// Breakdown itemizes the bonus kinds contributing to a prediction's total.
type Breakdown map[string]int

// HasScorerMatch reports whether the breakdown carries a scorer bonus in
// either tier. It drives the lifetime scorer-match achievement counter.
func (b Breakdown) HasScorerMatch() bool {
	return b[BonusMatchedScorer] > 0 || b[BonusMatchedScorerAlone] > 0
}

// Total sums every bonus present.
func (b Breakdown) Total() int {
	total := 0
	for _, points := range b {
		total += points
	}
	return total
}

// Prediction is one user's guess for one fixture. At most one exists per
// (user, fixture) pair. PointsEarned and Breakdown stay nil until the
// fixture's result has been reconciled at least once.
type Prediction struct {
	ID              string
	UserID          string
	FixtureID       string
	PredictedScore  fixture.Score
	PredictedPlayer string
	PointsEarned    *int
	Breakdown       Breakdown
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	CalculatedAt    *time.Time
}

// Scored reports whether the prediction has been through reconciliation.
func (p Prediction) Scored() bool {
	return p.PointsEarned != nil
}

// Points returns the stored point value, zero when never scored.
func (p Prediction) Points() int {
	if p.PointsEarned == nil {
		return 0
	}
	return *p.PointsEarned
}

// ValidateScore enforces the submission invariant: goals are non-negative
// and the home side may only be predicted to win or draw.
func ValidateScore(s fixture.Score) error {
	if s.Home < 0 || s.Away < 0 {
		return ErrNegativeScore
	}
	if s.Home < s.Away {
		return ErrHomeMustWinOrDraw
	}
	return nil
}
