package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	qb "github.com/bolao-app/bolao-api/internal/platform/querybuilder"
)

// LedgerWriter commits op batches inside a single transaction, giving the
// all-or-nothing guarantee the ledger contract requires. The op cap is a
// batching knob carried over from the document-store origin of the data
// model; Postgres itself does not need it, but keeping chunks bounded
// keeps transactions short.
type LedgerWriter struct {
	db     *sqlx.DB
	maxOps int
	now    func() time.Time
}

func NewLedgerWriter(db *sqlx.DB, maxOps int) *LedgerWriter {
	if maxOps <= 0 {
		maxOps = ledger.DefaultMaxOps
	}

	return &LedgerWriter{db: db, maxOps: maxOps, now: time.Now}
}

func (w *LedgerWriter) MaxOps() int {
	return w.maxOps
}

func (w *LedgerWriter) Apply(ctx context.Context, ops []ledger.Op) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin ledger tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, op := range ops {
		if err := w.applyOp(ctx, tx, op); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit ledger tx")
	}
	return nil
}

func (w *LedgerWriter) applyOp(ctx context.Context, tx *sqlx.Tx, op ledger.Op) error {
	switch o := op.(type) {
	case ledger.UpdatePredictionPoints:
		return w.updatePredictionPoints(ctx, tx, o)
	case ledger.IncrementUserCounters:
		return w.incrementUserCounters(ctx, tx, o)
	case ledger.ResetUserPoints:
		return w.resetUserPoints(ctx, tx, o)
	case ledger.SetFixtureResult:
		return w.setFixtureResult(ctx, tx, o)
	case ledger.DeletePrediction:
		return w.deletePrediction(ctx, tx, o)
	case ledger.DeleteFixture:
		return w.deleteFixture(ctx, tx, o)
	case ledger.EndSeason:
		return w.endSeason(ctx, tx, o)
	case ledger.DeleteSeason:
		return w.deleteSeason(ctx, tx, o)
	default:
		return crerr.Newf("unsupported ledger op %T", op)
	}
}

func (w *LedgerWriter) updatePredictionPoints(ctx context.Context, tx *sqlx.Tx, op ledger.UpdatePredictionPoints) error {
	breakdown, err := encodeBreakdown(op.Breakdown)
	if err != nil {
		return crerr.Wrapf(err, "encode breakdown for prediction %s", op.PredictionID)
	}

	query, args, err := qb.Update("predictions").
		Set("points_earned", op.Points).
		Set("breakdown", breakdown).
		Set("calculated_at", w.now().UTC()).
		Where(qb.Eq("id", op.PredictionID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update prediction points query")
	}

	return w.execExpectingRow(ctx, tx, query, args, "prediction", op.PredictionID)
}

func (w *LedgerWriter) incrementUserCounters(ctx context.Context, tx *sqlx.Tx, op ledger.IncrementUserCounters) error {
	query, args, err := qb.Update("users").
		SetExpr("total_points", "total_points + ?", op.PointsDelta).
		SetExpr("scorer_matches", "scorer_matches + ?", op.ScorerMatchDelta).
		Set("last_updated_at", w.now().UTC()).
		Where(qb.Eq("id", op.UserID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build increment user counters query")
	}

	return w.execExpectingRow(ctx, tx, query, args, "user", op.UserID)
}

func (w *LedgerWriter) resetUserPoints(ctx context.Context, tx *sqlx.Tx, op ledger.ResetUserPoints) error {
	query, args, err := qb.Update("users").
		Set("total_points", 0).
		Set("last_updated_at", w.now().UTC()).
		Where(qb.Eq("id", op.UserID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build reset user points query")
	}

	return w.execExpectingRow(ctx, tx, query, args, "user", op.UserID)
}

func (w *LedgerWriter) setFixtureResult(ctx context.Context, tx *sqlx.Tx, op ledger.SetFixtureResult) error {
	query, args, err := qb.Update("fixtures").
		Set("actual_home", op.Result.ActualScore.Home).
		Set("actual_away", op.Result.ActualScore.Away).
		Set("actual_scorers", pq.Array(op.Result.ActualScorers)).
		Set("actual_assists", pq.Array(op.Result.ActualAssists)).
		Set("status", fixture.StatusFinished).
		Set("result_set_at", w.now().UTC()).
		Set("result_set_by", op.SetBy).
		Where(qb.Eq("id", op.FixtureID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build set fixture result query")
	}

	return w.execExpectingRow(ctx, tx, query, args, "fixture", op.FixtureID)
}

// deletePrediction removes the row and, when it existed, decrements the
// owning fixture's denormalized counter. A vanished row is fine: retried
// chunks re-delete.
func (w *LedgerWriter) deletePrediction(ctx context.Context, tx *sqlx.Tx, op ledger.DeletePrediction) error {
	query, args, err := qb.DeleteFrom("predictions").
		Where(qb.Eq("id", op.PredictionID)).
		Suffix("RETURNING fixture_id").
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete prediction query")
	}

	var fixtureID string
	if err := tx.GetContext(ctx, &fixtureID, query, args...); err != nil {
		if isNotFound(err) {
			return nil
		}
		return crerr.Wrapf(err, "delete prediction %s", op.PredictionID)
	}

	counterQuery, counterArgs, err := qb.Update("fixtures").
		SetExpr("total_predictions", "GREATEST(total_predictions - 1, 0)").
		Where(qb.Eq("id", fixtureID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build decrement prediction counter query")
	}
	if _, err := tx.ExecContext(ctx, counterQuery, counterArgs...); err != nil {
		return crerr.Wrapf(err, "decrement prediction counter for fixture %s", fixtureID)
	}
	return nil
}

func (w *LedgerWriter) deleteFixture(ctx context.Context, tx *sqlx.Tx, op ledger.DeleteFixture) error {
	query, args, err := qb.DeleteFrom("fixtures").
		Where(qb.Eq("id", op.FixtureID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete fixture query")
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "delete fixture %s", op.FixtureID)
	}
	return nil
}

func (w *LedgerWriter) endSeason(ctx context.Context, tx *sqlx.Tx, op ledger.EndSeason) error {
	rankings, err := encodeFinalRankings(op.FinalRankings)
	if err != nil {
		return crerr.Wrapf(err, "encode final rankings for season %s", op.SeasonID)
	}

	query, args, err := qb.Update("seasons").
		Set("status", "ended").
		Set("ended_at", w.now().UTC()).
		Set("final_rankings", rankings).
		Where(qb.Eq("id", op.SeasonID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build end season query")
	}

	return w.execExpectingRow(ctx, tx, query, args, "season", op.SeasonID)
}

func (w *LedgerWriter) deleteSeason(ctx context.Context, tx *sqlx.Tx, op ledger.DeleteSeason) error {
	query, args, err := qb.DeleteFrom("seasons").
		Where(qb.Eq("id", op.SeasonID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete season query")
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "delete season %s", op.SeasonID)
	}
	return nil
}

func (w *LedgerWriter) execExpectingRow(ctx context.Context, tx *sqlx.Tx, query string, args []any, kind, id string) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrapf(err, "update %s %s: %s", kind, id, compactQuery(query))
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return crerr.Newf("%s %s not found", kind, id)
	}
	return nil
}
