package season

import "time"

const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// FinalRanking is one row of the immutable standings snapshot written when
// a season ends.
type FinalRanking struct {
	UserID      string
	Username    string
	TotalPoints int
	Rank        int
}

// Season groups fixtures into one competition window. At most one season is
// active at a time; FinalRankings is written exactly once, on rollover.
type Season struct {
	ID            string
	Name          string
	StartedAt     time.Time
	EndedAt       *time.Time
	Status        string
	CreatedBy     string
	CreatedAt     time.Time
	FinalRankings []FinalRanking
}

func (s Season) IsActive() bool {
	return s.Status == StatusActive
}
