package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID               string         `db:"id"`
	SeasonID         string         `db:"season_id"`
	Opponent         string         `db:"opponent"`
	KickoffAt        time.Time      `db:"kickoff_at"`
	Status           string         `db:"status"`
	CreatedBy        string         `db:"created_by"`
	CreatedAt        time.Time      `db:"created_at"`
	TotalPredictions int            `db:"total_predictions"`
	ActualHome       sql.NullInt64  `db:"actual_home"`
	ActualAway       sql.NullInt64  `db:"actual_away"`
	ActualScorers    pq.StringArray `db:"actual_scorers"`
	ActualAssists    pq.StringArray `db:"actual_assists"`
	ResultSetAt      sql.NullTime   `db:"result_set_at"`
	ResultSetBy      sql.NullString `db:"result_set_by"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	out := fixture.Fixture{
		ID:               m.ID,
		SeasonID:         m.SeasonID,
		Opponent:         m.Opponent,
		KickoffAt:        m.KickoffAt,
		Status:           m.Status,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		TotalPredictions: m.TotalPredictions,
		ResultSetAt:      nullTimePtr(m.ResultSetAt),
		ResultSetBy:      m.ResultSetBy.String,
	}

	// A stored home goal count marks the presence of a full result.
	if m.ActualHome.Valid && m.ActualAway.Valid {
		out.Result = &fixture.Result{
			ActualScore: fixture.Score{
				Home: int(m.ActualHome.Int64),
				Away: int(m.ActualAway.Int64),
			},
			ActualScorers: append([]string(nil), m.ActualScorers...),
			ActualAssists: append([]string(nil), m.ActualAssists...),
		}
	}

	return out
}
