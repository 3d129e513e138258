package postgres

import (
	"database/sql"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/user"
)

type userTableModel struct {
	ID            string       `db:"id"`
	Username      string       `db:"username"`
	DisplayName   string       `db:"display_name"`
	IsAdmin       bool         `db:"is_admin"`
	TotalPoints   int          `db:"total_points"`
	ScorerMatches int          `db:"scorer_matches"`
	CreatedAt     time.Time    `db:"created_at"`
	LastUpdatedAt sql.NullTime `db:"last_updated_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:            m.ID,
		Username:      m.Username,
		DisplayName:   m.DisplayName,
		IsAdmin:       m.IsAdmin,
		TotalPoints:   m.TotalPoints,
		ScorerMatches: m.ScorerMatches,
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: nullTimePtr(m.LastUpdatedAt),
	}
}
