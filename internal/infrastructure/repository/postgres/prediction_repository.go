package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	qb "github.com/bolao-app/bolao-api/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetByID(ctx context.Context, id string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction by id query: %w", err)
	}

	return r.getPrediction(ctx, query, args)
}

func (r *PredictionRepository) GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("fixture_id", fixtureID),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction by user and fixture query: %w", err)
	}

	return r.getPrediction(ctx, query, args)
}

func (r *PredictionRepository) getPrediction(ctx context.Context, query string, args []any) (prediction.Prediction, bool, error) {
	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}

	out, err := row.toDomain()
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return out, true, nil
}

func (r *PredictionRepository) ListByFixture(ctx context.Context, fixtureID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by fixture query: %w", err)
	}

	return r.selectPredictions(ctx, query, args)
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by user query: %w", err)
	}

	return r.selectPredictions(ctx, query, args)
}

func (r *PredictionRepository) selectPredictions(ctx context.Context, query string, args []any) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Create inserts the prediction and bumps the fixture's denormalized
// prediction counter in the same transaction.
func (r *PredictionRepository) Create(ctx context.Context, p prediction.Prediction) error {
	insertQuery, insertArgs, err := qb.InsertInto("predictions").
		Columns("id", "user_id", "fixture_id", "predicted_home", "predicted_away", "predicted_player", "created_at").
		Values(p.ID, p.UserID, p.FixtureID, p.PredictedScore.Home, p.PredictedScore.Away, p.PredictedPlayer, p.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert prediction query: %w", err)
	}

	counterQuery, counterArgs, err := qb.Update("fixtures").
		SetExpr("total_predictions", "total_predictions + ?", 1).
		Where(qb.Eq("id", p.FixtureID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build increment prediction counter query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin prediction insert tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, counterQuery, counterArgs...); err != nil {
		return fmt.Errorf("increment fixture prediction counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prediction insert: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Update(ctx context.Context, p prediction.Prediction) error {
	query, args, err := qb.Update("predictions").
		Set("predicted_home", p.PredictedScore.Home).
		Set("predicted_away", p.PredictedScore.Away).
		Set("predicted_player", p.PredictedPlayer).
		Set("updated_at", p.UpdatedAt).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update prediction query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update prediction: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update prediction: prediction %s not found", p.ID)
	}
	return nil
}
