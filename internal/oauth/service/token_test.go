package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
)

// issueTestCode puts a code into the store through the authorize service,
// the same path production uses.
func issueTestCode(t *testing.T, st store.Store, now time.Time) domain.AuthorizationCode {
	t.Helper()

	authorize := &AuthorizeService{Store: st}
	code, err := authorize.IssueCode(context.Background(), testClientID, testRedirectURI, "read", testUsername, now)
	require.NoError(t, err)
	return code
}

func exchangeRequest(code string) ExchangeRequest {
	return ExchangeRequest{
		GrantType:    "authorization_code",
		Code:         code,
		RedirectURI:  testRedirectURI,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
	}
}

func TestExchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	t.Run("happy path mints a bearer token", func(t *testing.T) {
		st := newTestStore(t)
		code := issueTestCode(t, st, now)
		svc := &TokenService{Store: st}

		token, err := svc.Exchange(ctx, exchangeRequest(code.Code), now)
		require.NoError(t, err)

		require.Equal(t, domain.TokenTypeBearer, token.TokenType)
		require.Equal(t, testUsername, token.Subject)
		require.Equal(t, testClientID, token.ClientID)
		require.Equal(t, "read", token.Scope)
		require.Equal(t, now.Add(DefaultAccessTTL), token.ExpiresAt)

		// The minted token validates against the store.
		got, err := st.AccessTokens().GetAccessToken(ctx, token.Token, now)
		require.NoError(t, err)
		require.Equal(t, token.ID, got.ID)
	})

	t.Run("unsupported grant types are rejected first", func(t *testing.T) {
		st := newTestStore(t)
		code := issueTestCode(t, st, now)
		svc := &TokenService{Store: st}

		req := exchangeRequest(code.Code)
		req.GrantType = "client_credentials"
		_, err := svc.Exchange(ctx, req, now)
		require.ErrorIs(t, err, ErrUnsupportedGrantType)
	})

	t.Run("code is single use", func(t *testing.T) {
		st := newTestStore(t)
		code := issueTestCode(t, st, now)
		svc := &TokenService{Store: st}

		_, err := svc.Exchange(ctx, exchangeRequest(code.Code), now)
		require.NoError(t, err)

		_, err = svc.Exchange(ctx, exchangeRequest(code.Code), now)
		require.ErrorIs(t, err, ErrInvalidGrant)
	})

	t.Run("expiry boundary", func(t *testing.T) {
		st := newTestStore(t)
		code := issueTestCode(t, st, now)
		svc := &TokenService{Store: st}

		// One second past expiry: invalid_grant, and the code is gone.
		_, err := svc.Exchange(ctx, exchangeRequest(code.Code), code.ExpiresAt.Add(time.Second))
		require.ErrorIs(t, err, ErrInvalidGrant)

		_, err = st.AuthorizationCodes().TakeAuthorizationCode(ctx, code.Code, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		// One second before expiry: still redeemable.
		fresh := issueTestCode(t, st, now)
		_, err = svc.Exchange(ctx, exchangeRequest(fresh.Code), fresh.ExpiresAt.Add(-time.Second))
		require.NoError(t, err)
	})

	t.Run("wrong client secret does not consume the code", func(t *testing.T) {
		st := newTestStore(t)
		code := issueTestCode(t, st, now)
		svc := &TokenService{Store: st}

		req := exchangeRequest(code.Code)
		req.ClientSecret = "wrong-secret"
		_, err := svc.Exchange(ctx, req, now)
		require.ErrorIs(t, err, ErrInvalidClient)

		// The code survives and the correct client can still redeem it.
		_, err = svc.Exchange(ctx, exchangeRequest(code.Code), now)
		require.NoError(t, err)
	})

	t.Run("unknown client does not consume the code", func(t *testing.T) {
		st := newTestStore(t)
		code := issueTestCode(t, st, now)
		svc := &TokenService{Store: st}

		req := exchangeRequest(code.Code)
		req.ClientID = "who-dis"
		_, err := svc.Exchange(ctx, req, now)
		require.ErrorIs(t, err, ErrInvalidClient)

		_, err = svc.Exchange(ctx, exchangeRequest(code.Code), now)
		require.NoError(t, err)
	})

	t.Run("redirect mismatch burns the code", func(t *testing.T) {
		st := newTestStore(t)
		code := issueTestCode(t, st, now)
		svc := &TokenService{Store: st}

		req := exchangeRequest(code.Code)
		req.RedirectURI = "http://evil.example/callback"
		_, err := svc.Exchange(ctx, req, now)
		require.ErrorIs(t, err, ErrInvalidGrant)

		// Retrying with the correct pair no longer works: take-then-validate.
		_, err = svc.Exchange(ctx, exchangeRequest(code.Code), now)
		require.ErrorIs(t, err, ErrInvalidGrant)
	})

	t.Run("missing code is invalid_grant", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TokenService{Store: st}

		req := exchangeRequest("")
		_, err := svc.Exchange(ctx, req, now)
		require.ErrorIs(t, err, ErrInvalidGrant)
	})
}

func TestExchangeSingleUseUnderConcurrency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	st := newTestStore(t)
	code := issueTestCode(t, st, now)
	svc := &TokenService{Store: st}

	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		grantErrs int
	)

	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			_, err := svc.Exchange(ctx, exchangeRequest(code.Code), now)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			default:
				require.ErrorIs(t, err, ErrInvalidGrant)
				grantErrs++
			}
		}()
	}

	close(start)
	wg.Wait()

	require.Equal(t, 1, successes, "exactly one concurrent redemption may succeed")
	require.Equal(t, attempts-1, grantErrs)
}
