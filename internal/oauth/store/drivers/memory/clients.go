package memory

import (
	"context"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
)

type clientsRepo Store

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[id]
	if !ok {
		return domain.Client{}, store.ErrNotFound
	}
	return client, nil
}

type usersRepo Store

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return user, nil
}

type postsRepo Store

func (r *postsRepo) ListPostsByUsername(ctx context.Context, username string) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := r.posts[username]
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	return out, nil
}
