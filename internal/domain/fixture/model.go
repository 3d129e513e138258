package fixture

import (
	"strings"
	"time"
)

const (
	StatusOpen     = "open"
	StatusLocked   = "locked"
	StatusFinished = "finished"
)

// Score is a scoreline from the pool club's point of view.
// Home is always the club the pool is run for.
type Score struct {
	Home int
	Away int
}

// Result is the final outcome recorded by an administrator. Scorers and
// assists are ordered lists of player names; a name appearing twice means
// two separate goals (or assists) by that player.
type Result struct {
	ActualScore   Score
	ActualScorers []string
	ActualAssists []string
}

// Fixture represents one match of the pool.
type Fixture struct {
	ID               string
	SeasonID         string
	Opponent         string
	KickoffAt        time.Time
	Status           string
	CreatedBy        string
	CreatedAt        time.Time
	TotalPredictions int
	Result           *Result
	ResultSetAt      *time.Time
	ResultSetBy      string
}

// HasResult reports whether an administrator has recorded an outcome.
func (f Fixture) HasResult() bool {
	return f.Result != nil
}

// AcceptsPredictions reports whether predictions may still be placed or
// edited: the fixture must be open and kickoff must not have passed.
func (f Fixture) AcceptsPredictions(now time.Time) bool {
	return f.Status == StatusOpen && now.Before(f.KickoffAt)
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusOpen
	}
	return status
}

func IsValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusOpen, StatusLocked, StatusFinished:
		return true
	default:
		return false
	}
}
