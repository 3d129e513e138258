package memory

import (
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/user"
)

// SeedUsers returns the pool members used when the service runs without a
// database. The admin account mirrors the pool organizer.
func SeedUsers() []user.User {
	createdAt := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	return []user.User{
		{ID: "user_admin", Username: "organizador", DisplayName: "Organizador", IsAdmin: true, CreatedAt: createdAt},
		{ID: "user_rafa", Username: "rafa", DisplayName: "Rafael", CreatedAt: createdAt},
		{ID: "user_carol", Username: "carol", DisplayName: "Carolina", CreatedAt: createdAt},
		{ID: "user_dudu", Username: "dudu", DisplayName: "Eduardo", CreatedAt: createdAt},
		{ID: "user_mari", Username: "mari", DisplayName: "Mariana", CreatedAt: createdAt},
	}
}

// Seed loads the given users into the store, skipping IDs already present.
func (s *Store) Seed(users []user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		if _, ok := s.users[u.ID]; ok {
			continue
		}
		s.users[u.ID] = cloneUser(u)
		s.userOrder = append(s.userOrder, u.ID)
	}
}
