package user

import "time"

// User carries the aggregate counters the reconciliation engine maintains.
// TotalPoints is the running sum for the active season; ScorerMatches is a
// lifetime achievement counter and survives season rollover. Both are
// caches derived from predictions, kept consistent by relative increments,
// never recomputed wholesale.
type User struct {
	ID            string
	Username      string
	DisplayName   string
	IsAdmin       bool
	TotalPoints   int
	ScorerMatches int
	CreatedAt     time.Time
	LastUpdatedAt *time.Time
}
