package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
)

func testCode(code string, expiresAt time.Time) domain.AuthorizationCode {
	return domain.AuthorizationCode{
		ID:          "01TESTCODEID",
		Code:        code,
		ClientID:    "demo-client-id",
		RedirectURI: "https://app.example/cb",
		Scope:       "read",
		Subject:     "demo-user",
		IssuedAt:    expiresAt.Add(-10 * time.Minute),
		ExpiresAt:   expiresAt,
	}
}

func TestPutAuthorizationCodeRejectsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewStore(Seed{})
	now := time.Now()

	require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("abc", now.Add(10*time.Minute))))

	err := s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("abc", now.Add(10*time.Minute)))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestTakeAuthorizationCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	t.Run("absent code is not found", func(t *testing.T) {
		s := NewStore(Seed{})
		_, err := s.AuthorizationCodes().TakeAuthorizationCode(ctx, "missing", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("take removes the entry", func(t *testing.T) {
		s := NewStore(Seed{})
		require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("abc", now.Add(10*time.Minute))))

		record, err := s.AuthorizationCodes().TakeAuthorizationCode(ctx, "abc", now)
		require.NoError(t, err)
		require.Equal(t, "demo-user", record.Subject)

		_, err = s.AuthorizationCodes().TakeAuthorizationCode(ctx, "abc", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expiry boundary", func(t *testing.T) {
		s := NewStore(Seed{})
		expiresAt := now.Add(10 * time.Minute)
		require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("edge", expiresAt)))

		// One second before expiry the code is still redeemable.
		record, err := s.AuthorizationCodes().TakeAuthorizationCode(ctx, "edge", expiresAt.Add(-time.Second))
		require.NoError(t, err)
		require.Equal(t, "edge", record.Code)
	})

	t.Run("expired code is removed on take", func(t *testing.T) {
		s := NewStore(Seed{})
		expiresAt := now.Add(10 * time.Minute)
		require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("stale", expiresAt)))

		_, err := s.AuthorizationCodes().TakeAuthorizationCode(ctx, "stale", expiresAt.Add(time.Second))
		require.ErrorIs(t, err, store.ErrExpired)

		// A later attempt must see NotFound, never a second Expired.
		_, err = s.AuthorizationCodes().TakeAuthorizationCode(ctx, "stale", expiresAt.Add(2*time.Second))
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestTakeAuthorizationCodeSingleUseUnderConcurrency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	s := NewStore(Seed{})
	require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("contested", now.Add(10*time.Minute))))

	const attempts = 64

	var (
		wg        sync.WaitGroup
		successes int
		notFound  int
		mu        sync.Mutex
	)

	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			_, err := s.AuthorizationCodes().TakeAuthorizationCode(ctx, "contested", now)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			default:
				require.ErrorIs(t, err, store.ErrNotFound)
				notFound++
			}
		}()
	}

	close(start)
	wg.Wait()

	require.Equal(t, 1, successes, "exactly one concurrent taker must win")
	require.Equal(t, attempts-1, notFound)
}

func TestAccessTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	token := domain.AccessToken{
		ID:        "01TESTTOKENID",
		Token:     "opaque-token",
		TokenType: domain.TokenTypeBearer,
		Subject:   "demo-user",
		ClientID:  "demo-client-id",
		Scope:     "read",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}

	t.Run("get re-checks expiry without deleting", func(t *testing.T) {
		s := NewStore(Seed{})
		require.NoError(t, s.AccessTokens().PutAccessToken(ctx, token))

		got, err := s.AccessTokens().GetAccessToken(ctx, "opaque-token", now.Add(59*time.Minute))
		require.NoError(t, err)
		require.Equal(t, "demo-user", got.Subject)

		_, err = s.AccessTokens().GetAccessToken(ctx, "opaque-token", now.Add(61*time.Minute))
		require.ErrorIs(t, err, store.ErrExpired)

		// Lazy invalidation: the stale entry is still there for the sweeper.
		_, err = s.AccessTokens().GetAccessToken(ctx, "opaque-token", now.Add(62*time.Minute))
		require.ErrorIs(t, err, store.ErrExpired)
	})

	t.Run("missing token is not found", func(t *testing.T) {
		s := NewStore(Seed{})
		_, err := s.AccessTokens().GetAccessToken(ctx, "missing", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate put is rejected", func(t *testing.T) {
		s := NewStore(Seed{})
		require.NoError(t, s.AccessTokens().PutAccessToken(ctx, token))
		require.ErrorIs(t, s.AccessTokens().PutAccessToken(ctx, token), store.ErrAlreadyExists)
	})
}

func TestHousekeepingSweeps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	s := NewStore(Seed{})

	require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("live", now.Add(10*time.Minute))))
	require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, testCode("dead", now.Add(-time.Minute))))

	deleted, err := s.AuthorizationCodes().DeleteExpiredAuthorizationCodes(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	// The live code survives the sweep.
	_, err = s.AuthorizationCodes().TakeAuthorizationCode(ctx, "live", now)
	require.NoError(t, err)

	expired := domain.AccessToken{Token: "old", ExpiresAt: now.Add(-time.Hour)}
	fresh := domain.AccessToken{Token: "new", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.AccessTokens().PutAccessToken(ctx, expired))
	require.NoError(t, s.AccessTokens().PutAccessToken(ctx, fresh))

	deleted, err = s.AccessTokens().DeleteExpiredAccessTokens(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	_, err = s.AccessTokens().GetAccessToken(ctx, "new", now)
	require.NoError(t, err)
}

func TestSeedLookups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewStore(Seed{
		Clients: []domain.Client{{ID: "c1", RedirectURIs: []string{"https://app/cb"}}},
		Users:   []domain.User{{ID: "u1", Username: "alice"}},
		Posts:   map[string][]domain.Post{"alice": {{ID: 1, Title: "hello"}}},
	})

	client, err := s.Clients().GetClientByID(ctx, "c1")
	require.NoError(t, err)
	require.True(t, client.AllowsRedirectURI("https://app/cb"))
	require.False(t, client.AllowsRedirectURI("https://app/cb/"))

	_, err = s.Clients().GetClientByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	user, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)

	_, err = s.Users().GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, store.ErrNotFound)

	posts, err := s.Posts().ListPostsByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	posts, err = s.Posts().ListPostsByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, posts)
}
