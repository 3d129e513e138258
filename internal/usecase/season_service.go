package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	"github.com/bolao-app/bolao-api/internal/domain/season"
	"github.com/bolao-app/bolao-api/internal/domain/user"
	idgen "github.com/bolao-app/bolao-api/internal/platform/id"
	"github.com/bolao-app/bolao-api/internal/platform/logging"
)

type SeasonService struct {
	seasonRepo  season.Repository
	fixtureRepo fixture.Repository
	userRepo    user.Repository
	writer      ledger.Writer
	rankings    *RankingService
	fixtures    *FixtureService
	ids         idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewSeasonService(
	seasonRepo season.Repository,
	fixtureRepo fixture.Repository,
	userRepo user.Repository,
	writer ledger.Writer,
	rankings *RankingService,
	fixtures *FixtureService,
	ids idgen.Generator,
	logger *logging.Logger,
) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonService{
		seasonRepo:  seasonRepo,
		fixtureRepo: fixtureRepo,
		userRepo:    userRepo,
		writer:      writer,
		rankings:    rankings,
		fixtures:    fixtures,
		ids:         ids,
		logger:      logger,
		now:         time.Now,
	}
}

// Create opens a new season. At most one season may be active system-wide;
// the check happens before any state changes.
func (s *SeasonService) Create(ctx context.Context, name string, startedAt time.Time, createdBy string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return season.Season{}, fmt.Errorf("%w: season name is required", ErrInvalidInput)
	}

	active, exists, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("get active season: %w", err)
	}
	if exists {
		return season.Season{}, fmt.Errorf("%w: season %q is still active, end or delete it first", ErrPrecondition, active.Name)
	}

	id, err := s.ids.NewID("season")
	if err != nil {
		return season.Season{}, fmt.Errorf("generate season id: %w", err)
	}

	if startedAt.IsZero() {
		startedAt = s.now()
	}
	created := season.Season{
		ID:        id,
		Name:      name,
		StartedAt: startedAt.UTC(),
		Status:    season.StatusActive,
		CreatedBy: createdBy,
		CreatedAt: s.now().UTC(),
	}
	if err := s.seasonRepo.Create(ctx, created); err != nil {
		return season.Season{}, fmt.Errorf("create season: %w", err)
	}

	s.logger.InfoContext(ctx, "season created", "season_id", created.ID, "name", name)
	return created, nil
}

func (s *SeasonService) GetByID(ctx context.Context, seasonID string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.GetByID")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return season.Season{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}
	return item, nil
}

func (s *SeasonService) ListAll(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListAll")
	defer span.End()

	seasons, err := s.seasonRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return seasons, nil
}

// End snapshots the current standings into the season's immutable final
// rankings, marks the season ended, and resets every user's running total
// to zero. The snapshot-and-end write goes first; the resets follow in
// bounded chunks and are trivially idempotent, so a partial failure is
// finished by re-running End (an already ended season with no newer
// active season only re-runs the reset sweep). Once a different season
// has become active, ending the old one again is rejected: its reset
// sweep would zero totals that now belong to the new season.
func (s *SeasonService) End(ctx context.Context, seasonID string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.End")
	defer span.End()

	target, err := s.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, err
	}

	if !target.IsActive() {
		active, exists, err := s.seasonRepo.GetActive(ctx)
		if err != nil {
			return season.Season{}, fmt.Errorf("get active season: %w", err)
		}
		if exists && active.ID != target.ID {
			return season.Season{}, fmt.Errorf("%w: season %s is already ended and season %s is active", ErrPrecondition, target.ID, active.ID)
		}
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("list users: %w", err)
	}

	var groups [][]ledger.Op
	if target.IsActive() {
		rankings, err := s.rankings.Standings(ctx)
		if err != nil {
			return season.Season{}, err
		}
		target.Status = season.StatusEnded
		target.FinalRankings = rankings
		groups = append(groups, []ledger.Op{ledger.EndSeason{
			SeasonID:      target.ID,
			FinalRankings: rankings,
		}})
	}

	// Reset sweep: one op per user, resumable after the cap-sized chunks.
	for _, u := range users {
		if u.TotalPoints == 0 {
			continue
		}
		groups = append(groups, []ledger.Op{ledger.ResetUserPoints{UserID: u.ID}})
	}

	if len(groups) == 0 {
		return target, nil
	}
	if err := applyChunks(ctx, s.writer, groups); err != nil {
		return season.Season{}, err
	}

	s.logger.InfoContext(ctx, "season ended",
		"season_id", target.ID,
		"ranked_users", len(target.FinalRankings),
	)
	return target, nil
}

// Delete cascades through every fixture of the season, reversing applied
// points per fixture, then removes the season record. The per-fixture
// deletions are sequential: each is its own atomic unit and the whole
// operation is safe to re-run after a failure partway through.
func (s *SeasonService) Delete(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Delete")
	defer span.End()

	target, err := s.GetByID(ctx, seasonID)
	if err != nil {
		return err
	}

	fixtures, err := s.fixtureRepo.ListBySeason(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("list fixtures by season: %w", err)
	}

	for _, fx := range fixtures {
		if err := s.fixtures.Delete(ctx, fx.ID); err != nil {
			return fmt.Errorf("delete fixture %s: %w", fx.ID, err)
		}
	}

	if err := applyChunks(ctx, s.writer, [][]ledger.Op{{ledger.DeleteSeason{SeasonID: target.ID}}}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "season deleted",
		"season_id", target.ID,
		"fixtures_removed", len(fixtures),
	)
	return nil
}
