package memory

import (
	"context"
	"time"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
)

type tokensRepo Store

func (r *tokensRepo) PutAccessToken(ctx context.Context, token domain.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[token.Token]; exists {
		return store.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

// GetAccessToken re-checks expiry on every read. Stale entries are left in
// place for the housekeeping sweep; validity is decided here, not by the
// sweeper.
func (r *tokensRepo) GetAccessToken(ctx context.Context, token string, now time.Time) (domain.AccessToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.tokens[token]
	if !ok {
		return domain.AccessToken{}, store.ErrNotFound
	}
	if record.IsExpired(now) {
		return domain.AccessToken{}, store.ErrExpired
	}
	return record, nil
}

func (r *tokensRepo) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, record := range r.tokens {
		if record.IsExpired(now) {
			delete(r.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}
