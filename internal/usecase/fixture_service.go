package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	"github.com/bolao-app/bolao-api/internal/domain/season"
	idgen "github.com/bolao-app/bolao-api/internal/platform/id"
	"github.com/bolao-app/bolao-api/internal/platform/logging"
)

type FixtureService struct {
	fixtureRepo    fixture.Repository
	predictionRepo prediction.Repository
	seasonRepo     season.Repository
	writer         ledger.Writer
	scoring        *ScoringService
	ids            idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

// FixtureUpdate carries the admin-editable fields; nil means unchanged.
type FixtureUpdate struct {
	Opponent  *string
	KickoffAt *time.Time
	Status    *string
}

func NewFixtureService(
	fixtureRepo fixture.Repository,
	predictionRepo prediction.Repository,
	seasonRepo season.Repository,
	writer ledger.Writer,
	scoring *ScoringService,
	ids idgen.Generator,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FixtureService{
		fixtureRepo:    fixtureRepo,
		predictionRepo: predictionRepo,
		seasonRepo:     seasonRepo,
		writer:         writer,
		scoring:        scoring,
		ids:            ids,
		logger:         logger,
		now:            time.Now,
	}
}

// Create schedules a fixture inside the active season.
func (s *FixtureService) Create(ctx context.Context, opponent string, kickoffAt time.Time, createdBy string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Create")
	defer span.End()

	opponent = strings.TrimSpace(opponent)
	if opponent == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: opponent is required", ErrInvalidInput)
	}
	if kickoffAt.IsZero() {
		return fixture.Fixture{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	active, exists, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get active season: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: no active season, create one before scheduling fixtures", ErrPrecondition)
	}

	id, err := s.ids.NewID("fx")
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("generate fixture id: %w", err)
	}

	fx := fixture.Fixture{
		ID:        id,
		SeasonID:  active.ID,
		Opponent:  opponent,
		KickoffAt: kickoffAt.UTC(),
		Status:    fixture.StatusOpen,
		CreatedBy: createdBy,
		CreatedAt: s.now().UTC(),
	}
	if err := s.fixtureRepo.Create(ctx, fx); err != nil {
		return fixture.Fixture{}, fmt.Errorf("create fixture: %w", err)
	}

	s.logger.InfoContext(ctx, "fixture created", "fixture_id", fx.ID, "opponent", opponent, "season_id", active.ID)
	return fx, nil
}

func (s *FixtureService) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetByID")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	return fx, nil
}

func (s *FixtureService) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListAll")
	defer span.End()

	fixtures, err := s.fixtureRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	return fixtures, nil
}

func (s *FixtureService) ListUpcoming(ctx context.Context) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListUpcoming")
	defer span.End()

	fixtures, err := s.fixtureRepo.ListUpcoming(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures: %w", err)
	}
	return fixtures, nil
}

// Update edits fixture metadata. When the fixture already has a stored
// result the points are re-derived afterwards, so a corrected fixture
// identity never leaves stale point values behind.
func (s *FixtureService) Update(ctx context.Context, fixtureID string, update FixtureUpdate) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Update")
	defer span.End()

	fx, err := s.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, err
	}

	if update.Opponent != nil {
		opponent := strings.TrimSpace(*update.Opponent)
		if opponent == "" {
			return fixture.Fixture{}, fmt.Errorf("%w: opponent cannot be blank", ErrInvalidInput)
		}
		fx.Opponent = opponent
	}
	if update.KickoffAt != nil {
		if update.KickoffAt.IsZero() {
			return fixture.Fixture{}, fmt.Errorf("%w: kickoff time cannot be zero", ErrInvalidInput)
		}
		fx.KickoffAt = update.KickoffAt.UTC()
	}
	if update.Status != nil {
		status := fixture.NormalizeStatus(*update.Status)
		if !fixture.IsValidStatus(status) {
			return fixture.Fixture{}, fmt.Errorf("%w: unknown fixture status %q", ErrInvalidInput, *update.Status)
		}
		fx.Status = status
	}

	if err := s.fixtureRepo.Update(ctx, fx); err != nil {
		return fixture.Fixture{}, fmt.Errorf("update fixture: %w", err)
	}

	if fx.HasResult() {
		if err := s.scoring.Recalculate(ctx, fx.ID); err != nil {
			return fixture.Fixture{}, fmt.Errorf("recalculate after fixture update: %w", err)
		}
	}

	return fx, nil
}

// Delete removes a fixture, its predictions, and the points those
// predictions had earned. Reversal deltas are staged per user in the same
// chunk as that user's prediction deletes; the fixture record goes in the
// final chunk so a retry after partial failure still finds it and can
// finish the job.
func (s *FixtureService) Delete(ctx context.Context, fixtureID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Delete")
	defer span.End()

	fx, err := s.GetByID(ctx, fixtureID)
	if err != nil {
		return err
	}

	preds, err := s.predictionRepo.ListByFixture(ctx, fx.ID)
	if err != nil {
		return fmt.Errorf("list predictions for fixture: %w", err)
	}

	groups := buildReversalGroups(preds)
	groups = append(groups, []ledger.Op{ledger.DeleteFixture{FixtureID: fx.ID}})

	if err := applyChunks(ctx, s.writer, groups); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "fixture deleted",
		"fixture_id", fx.ID,
		"opponent", fx.Opponent,
		"predictions_removed", len(preds),
	)
	return nil
}

// buildReversalGroups stages, per user, the prediction deletes plus the
// negative counter increments that undo previously applied points. Only
// scored predictions contribute to the deltas; unscored ones just get
// deleted.
func buildReversalGroups(preds []prediction.Prediction) [][]ledger.Op {
	if len(preds) == 0 {
		return nil
	}

	type userStage struct {
		ops         []ledger.Op
		pointsDelta int
		scorerDelta int
	}
	stages := make(map[string]*userStage, len(preds))
	order := make([]string, 0, len(preds))

	for _, p := range preds {
		stage, ok := stages[p.UserID]
		if !ok {
			stage = &userStage{}
			stages[p.UserID] = stage
			order = append(order, p.UserID)
		}

		stage.ops = append(stage.ops, ledger.DeletePrediction{PredictionID: p.ID})
		stage.pointsDelta -= p.Points()
		if p.Breakdown.HasScorerMatch() {
			stage.scorerDelta--
		}
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
