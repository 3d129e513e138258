package memory

import (
	"context"
	"fmt"

	"github.com/bolao-app/bolao-api/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, false, nil
	}

	return cloneUser(u), true, nil
}

func (r *UserRepository) ListAll(_ context.Context) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]user.User, 0, len(r.store.userOrder))
	for _, id := range r.store.userOrder {
		out = append(out, cloneUser(r.store.users[id]))
	}

	return out, nil
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[u.ID]; ok {
		return fmt.Errorf("user %s already exists", u.ID)
	}

	r.store.users[u.ID] = cloneUser(u)
	r.store.userOrder = append(r.store.userOrder, u.ID)
	return nil
}
