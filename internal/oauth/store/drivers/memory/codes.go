package memory

import (
	"context"
	"time"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
)

type codesRepo Store

func (r *codesRepo) PutAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[code.Code]; exists {
		return store.ErrAlreadyExists
	}
	r.codes[code.Code] = code
	return nil
}

// TakeAuthorizationCode removes the entry under the lock before looking at
// its expiry, so no two callers can both observe the code and an expired
// code can never be redeemed on a later attempt.
func (r *codesRepo) TakeAuthorizationCode(ctx context.Context, code string, now time.Time) (domain.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.codes[code]
	if !ok {
		return domain.AuthorizationCode{}, store.ErrNotFound
	}
	delete(r.codes, code)

	if record.IsExpired(now) {
		return domain.AuthorizationCode{}, store.ErrExpired
	}
	return record, nil
}

func (r *codesRepo) DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, record := range r.codes {
		if record.IsExpired(now) {
			delete(r.codes, key)
			deleted++
		}
	}
	return deleted, nil
}
