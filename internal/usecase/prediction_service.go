package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	idgen "github.com/bolao-app/bolao-api/internal/platform/id"
	"github.com/bolao-app/bolao-api/internal/platform/logging"
)

// PredictionService handles submission-time writes. Scoring never happens
// here; the fixture-status gate is what keeps the reconciliation engine's
// population snapshot closed while points are being derived.
type PredictionService struct {
	predictionRepo prediction.Repository
	fixtureRepo    fixture.Repository
	ids            idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

type PredictionInput struct {
	UserID          string
	FixtureID       string
	PredictedScore  fixture.Score
	PredictedPlayer string
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	fixtureRepo fixture.Repository,
	ids idgen.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		predictionRepo: predictionRepo,
		fixtureRepo:    fixtureRepo,
		ids:            ids,
		logger:         logger,
		now:            time.Now,
	}
}

// Place submits a user's prediction for an open fixture. One prediction
// per user per fixture.
func (s *PredictionService) Place(ctx context.Context, input PredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Place")
	defer span.End()

	if err := s.validateInput(ctx, input); err != nil {
		return prediction.Prediction{}, err
	}

	_, exists, err := s.predictionRepo.GetByUserAndFixture(ctx, input.UserID, input.FixtureID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get existing prediction: %w", err)
	}
	if exists {
		return prediction.Prediction{}, fmt.Errorf("%w: a prediction for this fixture already exists", ErrPrecondition)
	}

	id, err := s.ids.NewID("pred")
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}

	placed := prediction.Prediction{
		ID:              id,
		UserID:          input.UserID,
		FixtureID:       input.FixtureID,
		PredictedScore:  input.PredictedScore,
		PredictedPlayer: strings.TrimSpace(input.PredictedPlayer),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.predictionRepo.Create(ctx, placed); err != nil {
		return prediction.Prediction{}, fmt.Errorf("create prediction: %w", err)
	}

	s.logger.InfoContext(ctx, "prediction placed",
		"prediction_id", placed.ID,
		"fixture_id", input.FixtureID,
		"user_id", input.UserID,
	)
	return placed, nil
}

// Update edits the caller's existing prediction while the fixture still
// accepts predictions. The stored score values are replaced; points stay
// untouched because an open fixture has none yet.
func (s *PredictionService) Update(ctx context.Context, predictionID string, input PredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Update")
	defer span.End()

	predictionID = strings.TrimSpace(predictionID)
	if predictionID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction id is required", ErrInvalidInput)
	}
	if err := s.validateInput(ctx, input); err != nil {
		return prediction.Prediction{}, err
	}

	existing, exists, err := s.predictionRepo.GetByID(ctx, predictionID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction=%s", ErrNotFound, predictionID)
	}
	if existing.UserID != input.UserID {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction belongs to another user", ErrUnauthorized)
	}
	if existing.FixtureID != input.FixtureID {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction belongs to another fixture", ErrInvalidInput)
	}

	now := s.now().UTC()
	existing.PredictedScore = input.PredictedScore
	existing.PredictedPlayer = strings.TrimSpace(input.PredictedPlayer)
	existing.UpdatedAt = &now
	if err := s.predictionRepo.Update(ctx, existing); err != nil {
		return prediction.Prediction{}, fmt.Errorf("update prediction: %w", err)
	}

	return existing, nil
}

// ListByFixture returns the full population for one fixture (admin view).
func (s *PredictionService) ListByFixture(ctx context.Context, fixtureID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByFixture")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return nil, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	preds, err := s.predictionRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by fixture: %w", err)
	}
	return preds, nil
}

func (s *PredictionService) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	preds, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}
	return preds, nil
}

func (s *PredictionService) validateInput(ctx context.Context, input PredictionInput) error {
	if strings.TrimSpace(input.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.FixtureID) == "" {
		return fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if err := prediction.ValidateScore(input.PredictedScore); err != nil {
		if errors.Is(err, prediction.ErrNegativeScore) || errors.Is(err, prediction.ErrHomeMustWinOrDraw) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return err
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, input.FixtureID)
	if err != nil {
		return fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: fixture=%s", ErrNotFound, input.FixtureID)
	}
	if !fx.AcceptsPredictions(s.now()) {
		return fmt.Errorf("%w: fixture is no longer accepting predictions", ErrPrecondition)
	}

	return nil
}
