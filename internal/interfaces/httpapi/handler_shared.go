package httpapi

import (
	"fmt"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	"github.com/bolao-app/bolao-api/internal/domain/season"
	"github.com/bolao-app/bolao-api/internal/usecase"
)

type createFixtureRequest struct {
	Opponent  string `json:"opponent" validate:"required,max=120"`
	KickoffAt string `json:"kickoff_at" validate:"required"`
	CreatedBy string `json:"created_by" validate:"required"`
}

type updateFixtureRequest struct {
	Opponent  *string `json:"opponent,omitempty" validate:"omitempty,max=120"`
	KickoffAt *string `json:"kickoff_at,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type setFixtureResultRequest struct {
	HomeGoals int      `json:"home_goals" validate:"gte=0"`
	AwayGoals int      `json:"away_goals" validate:"gte=0"`
	Scorers   []string `json:"scorers" validate:"omitempty,dive,required"`
	Assists   []string `json:"assists" validate:"omitempty,dive,required"`
	SetBy     string   `json:"set_by" validate:"required"`
}

type placePredictionRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	FixtureID       string `json:"fixture_id" validate:"required"`
	PredictedHome   int    `json:"predicted_home" validate:"gte=0"`
	PredictedAway   int    `json:"predicted_away" validate:"gte=0"`
	PredictedPlayer string `json:"predicted_player" validate:"omitempty,max=120"`
}

type updatePredictionRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	FixtureID       string `json:"fixture_id" validate:"required"`
	PredictedHome   int    `json:"predicted_home" validate:"gte=0"`
	PredictedAway   int    `json:"predicted_away" validate:"gte=0"`
	PredictedPlayer string `json:"predicted_player" validate:"omitempty,max=120"`
}

type createSeasonRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	StartedAt string `json:"started_at" validate:"omitempty"`
	CreatedBy string `json:"created_by" validate:"required"`
}

type fixtureResultDTO struct {
	HomeGoals int      `json:"home_goals"`
	AwayGoals int      `json:"away_goals"`
	Scorers   []string `json:"scorers,omitempty"`
	Assists   []string `json:"assists,omitempty"`
}

type fixtureDTO struct {
	ID               string            `json:"id"`
	SeasonID         string            `json:"season_id"`
	Opponent         string            `json:"opponent"`
	KickoffAt        time.Time         `json:"kickoff_at"`
	Status           string            `json:"status"`
	CreatedBy        string            `json:"created_by"`
	CreatedAt        time.Time         `json:"created_at"`
	TotalPredictions int               `json:"total_predictions"`
	Result           *fixtureResultDTO `json:"result,omitempty"`
	ResultSetAt      *time.Time        `json:"result_set_at,omitempty"`
	ResultSetBy      string            `json:"result_set_by,omitempty"`
}

type predictionDTO struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	FixtureID       string         `json:"fixture_id"`
	PredictedHome   int            `json:"predicted_home"`
	PredictedAway   int            `json:"predicted_away"`
	PredictedPlayer string         `json:"predicted_player,omitempty"`
	PointsEarned    *int           `json:"points_earned,omitempty"`
	Breakdown       map[string]int `json:"breakdown,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at,omitempty"`
	CalculatedAt    *time.Time     `json:"calculated_at,omitempty"`
}

type rankingDTO struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
}

type seasonDTO struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	StartedAt     time.Time    `json:"started_at"`
	EndedAt       *time.Time   `json:"ended_at,omitempty"`
	Status        string       `json:"status"`
	CreatedBy     string       `json:"created_by"`
	CreatedAt     time.Time    `json:"created_at"`
	FinalRankings []rankingDTO `json:"final_rankings,omitempty"`
}

func fixtureToDTO(fx fixture.Fixture) fixtureDTO {
	dto := fixtureDTO{
		ID:               fx.ID,
		SeasonID:         fx.SeasonID,
		Opponent:         fx.Opponent,
		KickoffAt:        fx.KickoffAt,
		Status:           fx.Status,
		CreatedBy:        fx.CreatedBy,
		CreatedAt:        fx.CreatedAt,
		TotalPredictions: fx.TotalPredictions,
		ResultSetAt:      fx.ResultSetAt,
		ResultSetBy:      fx.ResultSetBy,
	}
	if fx.Result != nil {
		dto.Result = &fixtureResultDTO{
			HomeGoals: fx.Result.ActualScore.Home,
			AwayGoals: fx.Result.ActualScore.Away,
			Scorers:   fx.Result.ActualScorers,
			Assists:   fx.Result.ActualAssists,
		}
	}
	return dto
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:              p.ID,
		UserID:          p.UserID,
		FixtureID:       p.FixtureID,
		PredictedHome:   p.PredictedScore.Home,
		PredictedAway:   p.PredictedScore.Away,
		PredictedPlayer: p.PredictedPlayer,
		PointsEarned:    p.PointsEarned,
		Breakdown:       p.Breakdown,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		CalculatedAt:    p.CalculatedAt,
	}
}

func predictionsToDTOs(preds []prediction.Prediction) []predictionDTO {
	items := make([]predictionDTO, 0, len(preds))
	for _, p := range preds {
		items = append(items, predictionToDTO(p))
	}
	return items
}

func rankingToDTO(row season.FinalRanking) rankingDTO {
	return rankingDTO{
		UserID:      row.UserID,
		Username:    row.Username,
		TotalPoints: row.TotalPoints,
		Rank:        row.Rank,
	}
}

func seasonToDTO(s season.Season) seasonDTO {
	dto := seasonDTO{
		ID:        s.ID,
		Name:      s.Name,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Status:    s.Status,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
	}
	for _, row := range s.FinalRankings {
		dto.FinalRankings = append(dto.FinalRankings, rankingToDTO(row))
	}
	return dto
}

func parseRFC3339(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339: %v", usecase.ErrInvalidInput, field, err)
	}
	return parsed, nil
}
