package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
)

type predictionTableModel struct {
	ID              string        `db:"id"`
	UserID          string        `db:"user_id"`
	FixtureID       string        `db:"fixture_id"`
	PredictedHome   int           `db:"predicted_home"`
	PredictedAway   int           `db:"predicted_away"`
	PredictedPlayer string        `db:"predicted_player"`
	PointsEarned    sql.NullInt64 `db:"points_earned"`
	Breakdown       []byte        `db:"breakdown"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       sql.NullTime  `db:"updated_at"`
	CalculatedAt    sql.NullTime  `db:"calculated_at"`
}

func (m predictionTableModel) toDomain() (prediction.Prediction, error) {
	out := prediction.Prediction{
		ID:              m.ID,
		UserID:          m.UserID,
		FixtureID:       m.FixtureID,
		PredictedScore:  fixture.Score{Home: m.PredictedHome, Away: m.PredictedAway},
		PredictedPlayer: m.PredictedPlayer,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       nullTimePtr(m.UpdatedAt),
		CalculatedAt:    nullTimePtr(m.CalculatedAt),
	}

	if m.PointsEarned.Valid {
		points := int(m.PointsEarned.Int64)
		out.PointsEarned = &points
	}
	if len(m.Breakdown) > 0 {
		if err := sonic.Unmarshal(m.Breakdown, &out.Breakdown); err != nil {
			return prediction.Prediction{}, fmt.Errorf("decode breakdown for prediction %s: %w", m.ID, err)
		}
	}

	return out, nil
}

func encodeBreakdown(b prediction.Breakdown) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return sonic.Marshal(b)
}
