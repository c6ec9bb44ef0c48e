package store

import (
	"context"
	"errors"
	"time"

	"github.com/toydev/grantd/internal/oauth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrExpired is returned when a code or token exists but is past its
	// expiry. The service layer collapses it with ErrNotFound on the wire;
	// the distinction exists for logging only.
	ErrExpired = errors.New("store: expired")
)

// Store is the root data access interface. Concrete drivers (memory, or a
// transactional key-value store in a real deployment) implement this. It
// exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Clients() Clients
	Users() Users
	Posts() Posts
	AuthorizationCodes() AuthorizationCodes
	AccessTokens() AccessTokens

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the store is still usable.
	Ping(ctx context.Context) error
}

type Clients interface {
	// GetClientByID fetches a client registration. The registry is
	// read-only after process start; there are no mutators.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)
}

type Users interface {
	// GetUserByUsername is used during interactive login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

type Posts interface {
	// ListPostsByUsername returns the user's posts, newest first. A user
	// with no posts yields an empty slice, not ErrNotFound.
	ListPostsByUsername(ctx context.Context, username string) ([]domain.Post, error)
}

type AuthorizationCodes interface {
	// PutAuthorizationCode stores a freshly minted code. Returns
	// ErrAlreadyExists on a key collision rather than overwriting; codes
	// carry enough entropy that a collision is an invariant violation, not
	// an expected outcome.
	PutAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error

	// TakeAuthorizationCode atomically removes and returns the code if it
	// is present and unexpired at now. Returns ErrNotFound if absent and
	// ErrExpired if present but stale (the stale entry is removed as a side
	// effect). Under concurrent calls for the same key exactly one caller
	// succeeds; the rest observe ErrNotFound. This is the single-use
	// guarantee of the authorization code grant.
	TakeAuthorizationCode(ctx context.Context, code string, now time.Time) (domain.AuthorizationCode, error)

	// DeleteExpiredAuthorizationCodes is housekeeping. Lazy expiry in
	// TakeAuthorizationCode remains authoritative; this only bounds memory.
	DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) (int, error)
}

type AccessTokens interface {
	// PutAccessToken stores a freshly minted token.
	PutAccessToken(ctx context.Context, token domain.AccessToken) error

	// GetAccessToken returns the token if present, re-checking expiry
	// against now on every read. Returns ErrNotFound if absent and
	// ErrExpired if present but stale. Read-only; expired entries are left
	// for housekeeping.
	GetAccessToken(ctx context.Context, token string, now time.Time) (domain.AccessToken, error)

	// DeleteExpiredAccessTokens is housekeeping.
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int, error)
}
