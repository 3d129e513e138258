package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bolao-app/bolao-api/internal/domain/season"
	qb "github.com/bolao-app/bolao-api/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByID(ctx context.Context, id string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season by id query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season by id: %w", err)
	}

	out, err := row.toDomain()
	if err != nil {
		return season.Season{}, false, err
	}
	return out, true, nil
}

func (r *SeasonRepository) GetActive(ctx context.Context) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("status", season.StatusActive)).
		OrderBy("started_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get active season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get active season: %w", err)
	}

	out, err := row.toDomain()
	if err != nil {
		return season.Season{}, false, err
	}
	return out, true, nil
}

func (r *SeasonRepository) ListAll(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		OrderBy("started_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) error {
	rankings, err := encodeFinalRankings(item.FinalRankings)
	if err != nil {
		return fmt.Errorf("encode final rankings: %w", err)
	}

	query, args, err := qb.InsertInto("seasons").
		Columns("id", "name", "started_at", "status", "created_by", "created_at", "final_rankings").
		Values(item.ID, item.Name, item.StartedAt, item.Status, item.CreatedBy, item.CreatedAt, rankings).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert season query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert season: %w", err)
	}
	return nil
}
