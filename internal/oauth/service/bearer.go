package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
	"github.com/toydev/grantd/pkg/slogx"
)

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrTokenExpired = errors.New("token_expired")
)

// BearerService authenticates inbound requests against the access token
// store. It looks stateless to callers but every check is a live store
// lookup with a fresh expiry test.
type BearerService struct {
	Store store.Store
}

// Validate parses an Authorization header of the exact form
// "Bearer <token>" (single space, single token) and resolves it against the
// token store. Returns ErrInvalidRequest for a malformed header,
// ErrInvalidToken for an unknown token, and ErrTokenExpired for a stale one.
//
// The returned record carries subject, client, and scope for the caller to
// authorize the resource response.
func (s *BearerService) Validate(ctx context.Context, authorization string, now time.Time) (domain.AccessToken, error) {
	parts := strings.Split(authorization, " ")
	if len(parts) != 2 || parts[0] != domain.TokenTypeBearer || parts[1] == "" {
		return domain.AccessToken{}, ErrInvalidRequest
	}

	token, err := s.Store.AccessTokens().GetAccessToken(ctx, parts[1], now)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.AccessToken{}, ErrInvalidToken
		case errors.Is(err, store.ErrExpired):
			slogx.FromContext(ctx).Info("bearer validation: expired token")
			return domain.AccessToken{}, ErrTokenExpired
		default:
			return domain.AccessToken{}, err
		}
	}

	return token, nil
}
