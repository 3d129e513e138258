package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/bolao-app/bolao-api/internal/domain/season"
	"github.com/bolao-app/bolao-api/internal/domain/user"
)

// RankingService derives the current standings of the running season from
// the user aggregate counters.
type RankingService struct {
	userRepo user.Repository
}

func NewRankingService(userRepo user.Repository) *RankingService {
	return &RankingService{userRepo: userRepo}
}

// Standings returns every user ranked by descending points; ties are
// broken by username ascending so the order (and therefore any snapshot
// taken from it) is deterministic.
func (s *RankingService) Standings(ctx context.Context) ([]season.FinalRanking, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Standings")
	defer span.End()

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	slices.SortFunc(users, func(a, b user.User) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})

	rankings := make([]season.FinalRanking, 0, len(users))
	for i, u := range users {
		rankings = append(rankings, season.FinalRanking{
			UserID:      u.ID,
			Username:    u.Username,
			TotalPoints: u.TotalPoints,
			Rank:        i + 1,
		})
	}

	return rankings, nil
}
