// Package memory provides the in-memory store driver. It is the only
// driver the server ships with: grant state is process-lifetime by design,
// and the single mutex gives the linearizable take-and-validate the
// authorization code flow depends on. A real multi-instance deployment
// would replace this with a backing store offering the same atomicity
// (e.g. a transactional key-value store with conditional delete).
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
)

// Seed is the immutable data loaded at construction: client registrations,
// user credentials, and demo posts.
type Seed struct {
	Clients []domain.Client
	Users   []domain.User
	Posts   map[string][]domain.Post
}

// Store is the in-memory implementation of store.Store. All maps share one
// mutex; every public operation takes it, so records are published fully
// constructed and take-and-validate is atomic.
type Store struct {
	mu sync.RWMutex

	clients map[string]domain.Client
	users   map[string]domain.User
	posts   map[string][]domain.Post
	codes   map[string]domain.AuthorizationCode
	tokens  map[string]domain.AccessToken

	closed bool
}

var _ store.Store = (*Store)(nil)

// NewStore builds a store pre-loaded with the given seed. The client and
// user sets are fixed for the life of the process.
func NewStore(seed Seed) *Store {
	s := &Store{
		clients: make(map[string]domain.Client, len(seed.Clients)),
		users:   make(map[string]domain.User, len(seed.Users)),
		posts:   make(map[string][]domain.Post, len(seed.Posts)),
		codes:   make(map[string]domain.AuthorizationCode),
		tokens:  make(map[string]domain.AccessToken),
	}

	for _, c := range seed.Clients {
		s.clients[c.ID] = c
	}
	for _, u := range seed.Users {
		s.users[u.Username] = u
	}
	for username, posts := range seed.Posts {
		s.posts[username] = posts
	}

	return s
}

func (s *Store) Clients() store.Clients                       { return (*clientsRepo)(s) }
func (s *Store) Users() store.Users                           { return (*usersRepo)(s) }
func (s *Store) Posts() store.Posts                           { return (*postsRepo)(s) }
func (s *Store) AuthorizationCodes() store.AuthorizationCodes { return (*codesRepo)(s) }
func (s *Store) AccessTokens() store.AccessTokens             { return (*tokensRepo)(s) }

// Close marks the store unusable. There are no external resources to
// release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping reports whether the store is still open.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New("memory: store closed")
	}
	return ctx.Err()
}
