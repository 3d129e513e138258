package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/bolao-app/bolao-api/internal/domain/season"
)

type seasonTableModel struct {
	ID            string       `db:"id"`
	Name          string       `db:"name"`
	StartedAt     time.Time    `db:"started_at"`
	EndedAt       sql.NullTime `db:"ended_at"`
	Status        string       `db:"status"`
	CreatedBy     string       `db:"created_by"`
	CreatedAt     time.Time    `db:"created_at"`
	FinalRankings []byte       `db:"final_rankings"`
}

type finalRankingJSON struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
	Rank        int    `json:"rank"`
}

func (m seasonTableModel) toDomain() (season.Season, error) {
	out := season.Season{
		ID:        m.ID,
		Name:      m.Name,
		StartedAt: m.StartedAt,
		EndedAt:   nullTimePtr(m.EndedAt),
		Status:    m.Status,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}

	if len(m.FinalRankings) > 0 {
		var rows []finalRankingJSON
		if err := sonic.Unmarshal(m.FinalRankings, &rows); err != nil {
			return season.Season{}, fmt.Errorf("decode final rankings for season %s: %w", m.ID, err)
		}
		out.FinalRankings = make([]season.FinalRanking, 0, len(rows))
		for _, row := range rows {
			out.FinalRankings = append(out.FinalRankings, season.FinalRanking{
				UserID:      row.UserID,
				Username:    row.Username,
				TotalPoints: row.TotalPoints,
				Rank:        row.Rank,
			})
		}
	}

	return out, nil
}

func encodeFinalRankings(rankings []season.FinalRanking) ([]byte, error) {
	if len(rankings) == 0 {
		return nil, nil
	}

	rows := make([]finalRankingJSON, 0, len(rankings))
	for _, r := range rankings {
		rows = append(rows, finalRankingJSON{
			UserID:      r.UserID,
			Username:    r.Username,
			TotalPoints: r.TotalPoints,
			Rank:        r.Rank,
		})
	}
	return sonic.Marshal(rows)
}
