package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	"github.com/bolao-app/bolao-api/internal/domain/scoring"
	"github.com/bolao-app/bolao-api/internal/domain/season"
	"github.com/bolao-app/bolao-api/internal/platform/logging"
	"github.com/bolao-app/bolao-api/internal/platform/resilience"
)

const defaultSeasonRecalcWorkers = 4

// ScoringService owns result setting and point reconciliation. Every code
// path that changes a prediction's stored points computes the matching
// per-user delta and stages it in the same atomic unit; user counters are
// only ever touched by relative increments.
type ScoringService struct {
	fixtureRepo    fixture.Repository
	predictionRepo prediction.Repository
	seasonRepo     season.Repository
	writer         ledger.Writer
	logger         *logging.Logger

	recalcFlight  resilience.SingleFlight
	recalcWorkers int
}

func NewScoringService(
	fixtureRepo fixture.Repository,
	predictionRepo prediction.Repository,
	seasonRepo season.Repository,
	writer ledger.Writer,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		fixtureRepo:    fixtureRepo,
		predictionRepo: predictionRepo,
		seasonRepo:     seasonRepo,
		writer:         writer,
		logger:         logger,
		recalcWorkers:  defaultSeasonRecalcWorkers,
	}
}

// SetRecalcWorkers bounds the pool used by RecalculateSeason. Values
// below one keep the current size.
func (s *ScoringService) SetRecalcWorkers(workers int) {
	if workers > 0 {
		s.recalcWorkers = workers
	}
}

// SetResult records the fixture's true outcome and reconciles every
// prediction against it. Safe to call again with a corrected result: the
// stored per-prediction values are diffed, so only net changes reach the
// user counters.
func (s *ScoringService) SetResult(ctx context.Context, fixtureID string, result fixture.Result, setBy string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.SetResult")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if result.ActualScore.Home < 0 || result.ActualScore.Away < 0 {
		return fmt.Errorf("%w: actual score cannot be negative", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}

	preds, err := s.predictionRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("list predictions for fixture: %w", err)
	}

	// The result write leads so that a failure in a later chunk leaves a
	// stored result behind; the retry path is then plain recalculation.
	groups := [][]ledger.Op{{ledger.SetFixtureResult{
		FixtureID: fixtureID,
		Result:    result,
		SetBy:     strings.TrimSpace(setBy),
	}}}
	groups = append(groups, buildReconciliationGroups(preds, result)...)

	if err := applyChunks(ctx, s.writer, groups); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "fixture result reconciled",
		"fixture_id", fixtureID,
		"opponent", fx.Opponent,
		"predictions", len(preds),
	)
	return nil
}

// Recalculate re-derives every prediction's points from the result already
// stored on the fixture. Used after fixture metadata changes; running it
// with unchanged data stages zero deltas everywhere.
func (s *ScoringService) Recalculate(ctx context.Context, fixtureID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Recalculate")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	if !fx.HasResult() {
		return fmt.Errorf("%w: fixture %s has no stored result", ErrPrecondition, fixtureID)
	}

	preds, err := s.predictionRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("list predictions for fixture: %w", err)
	}
	if len(preds) == 0 {
		return nil
	}

	groups := buildReconciliationGroups(preds, *fx.Result)
	if err := applyChunks(ctx, s.writer, groups); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "fixture points recalculated",
		"fixture_id", fixtureID,
		"predictions", len(preds),
	)
	return nil
}

// RecalculateSeason re-runs Recalculate over every fixture of the season
// that has a stored result, on a bounded worker pool. Concurrent fixture
// reconciliations are safe: counters compose through atomic relative
// increments. A singleflight guard keeps duplicate admin triggers from
// running the sweep twice at once.
func (s *ScoringService) RecalculateSeason(ctx context.Context, seasonID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecalculateSeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return 0, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return 0, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return 0, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	val, flightErr, shared := s.recalcFlight.Do("recalc-season:"+seasonID, func() (any, error) {
		return s.recalculateSeasonOnce(ctx, seasonID)
	})
	if shared {
		s.logger.InfoContext(ctx, "season recalculation joined in-flight run", "season_id", seasonID)
	}
	recalculated, _ := val.(int)
	return recalculated, flightErr
}

func (s *ScoringService) recalculateSeasonOnce(ctx context.Context, seasonID string) (int, error) {
	fixtures, err := s.fixtureRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("list fixtures by season: %w", err)
	}

	targets := make([]fixture.Fixture, 0, len(fixtures))
	for _, fx := range fixtures {
		if fx.HasResult() {
			targets = append(targets, fx)
		}
	}
	if len(targets) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(s.recalcWorkers)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		runErrs []error
	)
	for _, fx := range targets {
		fx := fx
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if recalcErr := s.Recalculate(ctx, fx.ID); recalcErr != nil {
				mu.Lock()
				runErrs = append(runErrs, fmt.Errorf("fixture %s: %w", fx.ID, recalcErr))
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			runErrs = append(runErrs, fmt.Errorf("submit fixture %s: %w", fx.ID, err))
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(runErrs) > 0 {
		return len(targets) - len(runErrs), errors.Join(runErrs...)
	}
	return len(targets), nil
}

// buildReconciliationGroups scores the full prediction population and
// stages one op group per user: that user's prediction writes followed by
// a counter increment when the net delta is nonzero. Groups are the
// indivisible chunking unit, so a committed chunk never separates a
// prediction's new value from its user's matching increment.
func buildReconciliationGroups(preds []prediction.Prediction, result fixture.Result) [][]ledger.Op {
	if len(preds) == 0 {
		return nil
	}

	scoreCounts, playerCounts := scoring.BuildCounts(preds)

	type userStage struct {
		ops         []ledger.Op
		pointsDelta int
		scorerDelta int
	}
	stages := make(map[string]*userStage, len(preds))
	order := make([]string, 0, len(preds))

	for _, p := range preds {
		outcome := scoring.CalculatePoints(p, result, scoreCounts, playerCounts)

		stage, ok := stages[p.UserID]
		if !ok {
			stage = &userStage{}
			stages[p.UserID] = stage
			order = append(order, p.UserID)
		}

		stage.ops = append(stage.ops, ledger.UpdatePredictionPoints{
			PredictionID: p.ID,
			Points:       outcome.Points,
			Breakdown:    outcome.Breakdown,
		})
		stage.pointsDelta += outcome.Points - p.Points()
		stage.scorerDelta += scorerMatchDelta(p.Breakdown, outcome.Breakdown)
	}

	groups := make([][]ledger.Op, 0, len(order))
	for _, userID := range order {
		stage := stages[userID]
		if stage.pointsDelta != 0 || stage.scorerDelta != 0 {
			stage.ops = append(stage.ops, ledger.IncrementUserCounters{
				UserID:           userID,
				PointsDelta:      stage.pointsDelta,
				ScorerMatchDelta: stage.scorerDelta,
			})
		}
		groups = append(groups, stage.ops)
	}

	return groups
}

// scorerMatchDelta models a correction, not an accumulation: a prediction
// holds at most one active scorer-match credit at a time.
func scorerMatchDelta(previous, current prediction.Breakdown) int {
	had := previous.HasScorerMatch()
	has := current.HasScorerMatch()
	switch {
	case !had && has:
		return 1
	case had && !has:
		return -1
	default:
		return 0
	}
}
