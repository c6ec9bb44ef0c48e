package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
	"github.com/toydev/grantd/pkg/cryptox"
	"github.com/toydev/grantd/pkg/idx"
	"github.com/toydev/grantd/pkg/slogx"
)

var (
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
	ErrInvalidGrant         = errors.New("invalid_grant")
)

// DefaultAccessTTL is the access token lifetime.
const DefaultAccessTTL = time.Hour

// TokenService redeems authorization codes for access tokens.
type TokenService struct {
	Store     store.Store
	AccessTTL time.Duration
}

// ExchangeRequest carries the form parameters of a token request.
type ExchangeRequest struct {
	GrantType    string
	Code         string
	RedirectURI  string
	ClientID     string
	ClientSecret string
}

// Exchange implements the authorization_code grant.
//
// The order of checks is load-bearing:
//
//  1. grant_type, then client authentication, both before the code is
//     touched — a request that fails client authentication must not
//     consume the code.
//  2. The code is then TAKEN from the store before its bindings are
//     checked. A mismatched redirect_uri or client burns the code rather
//     than returning it; validate-then-take would leave a window where two
//     concurrent exchanges both pass validation and both succeed.
//
// Unknown, expired, and already-consumed codes all surface as
// ErrInvalidGrant so the response gives no oracle on code existence; the
// cases are distinguished only in logs.
func (s *TokenService) Exchange(ctx context.Context, req ExchangeRequest, now time.Time) (domain.AccessToken, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(req.GrantType) != "authorization_code" {
		return domain.AccessToken{}, ErrUnsupportedGrantType
	}

	client, err := s.Store.Clients().GetClientByID(ctx, strings.TrimSpace(req.ClientID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessToken{}, ErrInvalidClient
		}
		return domain.AccessToken{}, err
	}
	if cryptox.VerifySecret(req.ClientSecret, client.SecretHash) != nil {
		log.Info("token exchange: client authentication failed", "client_id", client.ID)
		return domain.AccessToken{}, ErrInvalidClient
	}

	code := strings.TrimSpace(req.Code)
	redirectURI := strings.TrimSpace(req.RedirectURI)
	if code == "" {
		return domain.AccessToken{}, ErrInvalidGrant
	}

	grant, err := s.Store.AuthorizationCodes().TakeAuthorizationCode(ctx, code, now)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Info("token exchange: unknown or already used code", "client_id", client.ID)
			return domain.AccessToken{}, ErrInvalidGrant
		case errors.Is(err, store.ErrExpired):
			log.Info("token exchange: expired code", "client_id", client.ID)
			return domain.AccessToken{}, ErrInvalidGrant
		default:
			return domain.AccessToken{}, err
		}
	}

	// The code is consumed at this point. Binding failures below do not
	// resurrect it.
	if grant.ClientID != client.ID || grant.RedirectURI != redirectURI {
		log.Warn("token exchange: code binding mismatch, code burned",
			"code_id", grant.ID,
			"issued_to", grant.ClientID,
			"presented_by", client.ID,
		)
		return domain.AccessToken{}, ErrInvalidGrant
	}

	token, err := s.mintAccessToken(ctx, grant, now)
	if err != nil {
		return domain.AccessToken{}, err
	}

	log.Info("access token issued",
		"token_id", token.ID,
		"client_id", token.ClientID,
		"subject", token.Subject,
	)

	return token, nil
}

func (s *TokenService) mintAccessToken(ctx context.Context, grant domain.AuthorizationCode, now time.Time) (domain.AccessToken, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("minting access token: %w", err)
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}

	token := domain.AccessToken{
		ID:        idx.New().String(),
		Token:     opaque,
		TokenType: domain.TokenTypeBearer,
		Subject:   grant.Subject,
		ClientID:  grant.ClientID,
		Scope:     grant.Scope,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.Store.AccessTokens().PutAccessToken(ctx, token); err != nil {
		return domain.AccessToken{}, fmt.Errorf("storing access token: %w", err)
	}

	return token, nil
}
