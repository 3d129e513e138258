package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	"github.com/bolao-app/bolao-api/internal/domain/season"
	"github.com/bolao-app/bolao-api/internal/domain/user"
)

// Store keeps every entity behind one mutex so a ledger batch mutates all
// of them atomically, the way a single transaction would. The per-entity
// repositories returned by Users, Seasons, Fixtures and Predictions are
// views over the same state.
type Store struct {
	mu sync.RWMutex

	users           map[string]user.User
	userOrder       []string
	seasons         map[string]season.Season
	seasonOrder     []string
	fixtures        map[string]fixture.Fixture
	fixtureOrder    []string
	predictions     map[string]prediction.Prediction
	predictionOrder []string

	maxOps int
	now    func() time.Time
}

func NewStore(maxOps int) *Store {
	if maxOps <= 0 {
		maxOps = ledger.DefaultMaxOps
	}

	return &Store{
		users:       make(map[string]user.User),
		seasons:     make(map[string]season.Season),
		fixtures:    make(map[string]fixture.Fixture),
		predictions: make(map[string]prediction.Prediction),
		maxOps:      maxOps,
		now:         time.Now,
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{store: s} }
func (s *Store) Seasons() *SeasonRepository         { return &SeasonRepository{store: s} }
func (s *Store) Fixtures() *FixtureRepository       { return &FixtureRepository{store: s} }
func (s *Store) Predictions() *PredictionRepository { return &PredictionRepository{store: s} }

func (s *Store) MaxOps() int {
	return s.maxOps
}

// Apply commits a batch of ledger ops. The batch is validated up front and
// only then applied, so a reference to a missing entity leaves the store
// untouched. Deletes and resets are idempotent; a retried batch that was
// already committed is a no-op.
func (s *Store) Apply(_ context.Context, ops []ledger.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range ops {
		if err := s.validateOp(op); err != nil {
			return err
		}
	}
	for _, op := range ops {
		s.applyOp(op)
	}

	return nil
}

func (s *Store) validateOp(op ledger.Op) error {
	switch o := op.(type) {
	case ledger.UpdatePredictionPoints:
		if _, ok := s.predictions[o.PredictionID]; !ok {
			return fmt.Errorf("apply: prediction %s not found", o.PredictionID)
		}
	case ledger.IncrementUserCounters:
		if _, ok := s.users[o.UserID]; !ok {
			return fmt.Errorf("apply: user %s not found", o.UserID)
		}
	case ledger.ResetUserPoints:
		if _, ok := s.users[o.UserID]; !ok {
			return fmt.Errorf("apply: user %s not found", o.UserID)
		}
	case ledger.SetFixtureResult:
		if _, ok := s.fixtures[o.FixtureID]; !ok {
			return fmt.Errorf("apply: fixture %s not found", o.FixtureID)
		}
	case ledger.EndSeason:
		if _, ok := s.seasons[o.SeasonID]; !ok {
			return fmt.Errorf("apply: season %s not found", o.SeasonID)
		}
	case ledger.DeletePrediction, ledger.DeleteFixture, ledger.DeleteSeason:
		// Deletes tolerate an already-removed target.
	default:
		return fmt.Errorf("apply: unsupported op %T", op)
	}

	return nil
}

func (s *Store) applyOp(op ledger.Op) {
	switch o := op.(type) {
	case ledger.UpdatePredictionPoints:
		p := s.predictions[o.PredictionID]
		points := o.Points
		now := s.now().UTC()
		p.PointsEarned = &points
		p.Breakdown = cloneBreakdown(o.Breakdown)
		p.CalculatedAt = &now
		s.predictions[o.PredictionID] = p
	case ledger.IncrementUserCounters:
		u := s.users[o.UserID]
		now := s.now().UTC()
		u.TotalPoints += o.PointsDelta
		u.ScorerMatches += o.ScorerMatchDelta
		u.LastUpdatedAt = &now
		s.users[o.UserID] = u
	case ledger.ResetUserPoints:
		u := s.users[o.UserID]
		now := s.now().UTC()
		u.TotalPoints = 0
		u.LastUpdatedAt = &now
		s.users[o.UserID] = u
	case ledger.SetFixtureResult:
		f := s.fixtures[o.FixtureID]
		now := s.now().UTC()
		result := cloneResult(o.Result)
		f.Result = &result
		f.ResultSetAt = &now
		f.ResultSetBy = o.SetBy
		f.Status = fixture.StatusFinished
		s.fixtures[o.FixtureID] = f
	case ledger.DeletePrediction:
		p, ok := s.predictions[o.PredictionID]
		if !ok {
			return
		}
		delete(s.predictions, o.PredictionID)
		s.predictionOrder = removeID(s.predictionOrder, o.PredictionID)
		if f, ok := s.fixtures[p.FixtureID]; ok && f.TotalPredictions > 0 {
			f.TotalPredictions--
			s.fixtures[p.FixtureID] = f
		}
	case ledger.DeleteFixture:
		if _, ok := s.fixtures[o.FixtureID]; !ok {
			return
		}
		delete(s.fixtures, o.FixtureID)
		s.fixtureOrder = removeID(s.fixtureOrder, o.FixtureID)
	case ledger.EndSeason:
		target := s.seasons[o.SeasonID]
		now := s.now().UTC()
		target.Status = season.StatusEnded
		target.EndedAt = &now
		target.FinalRankings = append([]season.FinalRanking(nil), o.FinalRankings...)
		s.seasons[o.SeasonID] = target
	case ledger.DeleteSeason:
		if _, ok := s.seasons[o.SeasonID]; !ok {
			return
		}
		delete(s.seasons, o.SeasonID)
		s.seasonOrder = removeID(s.seasonOrder, o.SeasonID)
	}
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneBreakdown(b prediction.Breakdown) prediction.Breakdown {
	if b == nil {
		return nil
	}
	out := make(prediction.Breakdown, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func clonePrediction(p prediction.Prediction) prediction.Prediction {
	out := p
	if p.PointsEarned != nil {
		points := *p.PointsEarned
		out.PointsEarned = &points
	}
	out.Breakdown = cloneBreakdown(p.Breakdown)
	if p.UpdatedAt != nil {
		at := *p.UpdatedAt
		out.UpdatedAt = &at
	}
	if p.CalculatedAt != nil {
		at := *p.CalculatedAt
		out.CalculatedAt = &at
	}
	return out
}

func cloneResult(r fixture.Result) fixture.Result {
	out := r
	out.ActualScorers = append([]string(nil), r.ActualScorers...)
	out.ActualAssists = append([]string(nil), r.ActualAssists...)
	return out
}

func cloneFixture(f fixture.Fixture) fixture.Fixture {
	out := f
	if f.Result != nil {
		result := cloneResult(*f.Result)
		out.Result = &result
	}
	if f.ResultSetAt != nil {
		at := *f.ResultSetAt
		out.ResultSetAt = &at
	}
	return out
}

func cloneSeason(item season.Season) season.Season {
	out := item
	if item.EndedAt != nil {
		at := *item.EndedAt
		out.EndedAt = &at
	}
	out.FinalRankings = append([]season.FinalRanking(nil), item.FinalRankings...)
	return out
}

func cloneUser(u user.User) user.User {
	out := u
	if u.LastUpdatedAt != nil {
		at := *u.LastUpdatedAt
		out.LastUpdatedAt = &at
	}
	return out
}
