package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	qb "github.com/bolao-app/bolao-api/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture by id query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *FixtureRepository) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		OrderBy("kickoff_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListBySeason(ctx context.Context, seasonID string) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("kickoff_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures by season query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListUpcoming(ctx context.Context, now time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("status", fixture.StatusOpen),
			qb.Gt("kickoff_at", now),
		).
		OrderBy("kickoff_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming fixtures query: %w", err)
	}

	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, query string, args []any) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *FixtureRepository) Create(ctx context.Context, f fixture.Fixture) error {
	query, args, err := qb.InsertInto("fixtures").
		Columns("id", "season_id", "opponent", "kickoff_at", "status", "created_by", "created_at", "total_predictions").
		Values(f.ID, f.SeasonID, f.Opponent, f.KickoffAt, f.Status, f.CreatedBy, f.CreatedAt, f.TotalPredictions).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert fixture query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fixture: %w", err)
	}
	return nil
}

// Update rewrites the admin-editable metadata. Result columns and the
// prediction counter belong to the batch writer and stay untouched here.
func (r *FixtureRepository) Update(ctx context.Context, f fixture.Fixture) error {
	query, args, err := qb.Update("fixtures").
		Set("opponent", f.Opponent).
		Set("kickoff_at", f.KickoffAt).
		Set("status", f.Status).
		Where(qb.Eq("id", f.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update fixture: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update fixture: fixture %s not found", f.ID)
	}
	return nil
}
