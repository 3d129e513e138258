package ledger

import (
	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	"github.com/bolao-app/bolao-api/internal/domain/season"
)

// Op is one write staged against the store. Ops are applied together in an
// atomic batch so that per-prediction point values and per-user aggregate
// counters can never drift apart inside a committed unit.
type Op interface {
	isOp()
}

// UpdatePredictionPoints persists a freshly calculated point value and its
// breakdown on a prediction.
type UpdatePredictionPoints struct {
	PredictionID string
	Points       int
	Breakdown    prediction.Breakdown
}

// IncrementUserCounters applies relative deltas to a user's aggregate
// counters. Deltas compose under concurrency; absolute overwrites would
// lose updates from reconciliations of other fixtures.
type IncrementUserCounters struct {
	UserID           string
	PointsDelta      int
	ScorerMatchDelta int
}

// ResetUserPoints sets a user's running total back to zero on season
// rollover. The scorer-match counter is deliberately untouched.
type ResetUserPoints struct {
	UserID string
}

// SetFixtureResult records (or replaces) the true outcome on a fixture and
// marks it finished.
type SetFixtureResult struct {
	FixtureID string
	Result    fixture.Result
	SetBy     string
}

// DeletePrediction removes one prediction.
type DeletePrediction struct {
	PredictionID string
}

// DeleteFixture removes the fixture record itself.
type DeleteFixture struct {
	FixtureID string
}

// EndSeason snapshots the final standings and flips the season to ended.
type EndSeason struct {
	SeasonID      string
	FinalRankings []season.FinalRanking
}

// DeleteSeason removes the season record.
type DeleteSeason struct {
	SeasonID string
}

func (UpdatePredictionPoints) isOp() {}
func (IncrementUserCounters) isOp()  {}
func (ResetUserPoints) isOp()        {}
func (SetFixtureResult) isOp()       {}
func (DeletePrediction) isOp()       {}
func (DeleteFixture) isOp()          {}
func (EndSeason) isOp()              {}
func (DeleteSeason) isOp()           {}
