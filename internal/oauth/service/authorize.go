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

// Sentinel errors named after the OAuth2 wire strings they map to.
var (
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrUnsupportedResponseType = errors.New("unsupported_response_type")
	ErrInvalidClient           = errors.New("invalid_client")
	ErrInvalidRedirectURI      = errors.New("invalid_redirect_uri")
	ErrInvalidCredentials      = errors.New("invalid_credentials")
)

// DefaultCodeTTL is the authorization code lifetime.
const DefaultCodeTTL = 10 * time.Minute

// AuthorizeService validates authorization requests, authenticates resource
// owners, and issues single-use authorization codes.
type AuthorizeService struct {
	Store   store.Store
	CodeTTL time.Duration
}

// AuthorizeRequest captures the query parameters of an authorization
// request. State is opaque to the server: it is generated and verified by
// the requesting client application and only echoed back on the redirect.
type AuthorizeRequest struct {
	ResponseType string
	ClientID     string
	RedirectURI  string
	Scope        string
	State        string
}

// ValidateRequest checks an authorization request before any consent UI is
// shown. Order matters: the redirect_uri is never judged (or trusted for
// error delivery) until the client itself is confirmed registered.
//
// Returns ErrUnsupportedResponseType, ErrInvalidClient, or
// ErrInvalidRedirectURI. Scope is an opaque pass-through and is not
// inspected.
func (s *AuthorizeService) ValidateRequest(ctx context.Context, req AuthorizeRequest) error {
	if strings.TrimSpace(req.ResponseType) != "code" {
		return ErrUnsupportedResponseType
	}

	client, err := s.Store.Clients().GetClientByID(ctx, strings.TrimSpace(req.ClientID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidClient
		}
		return err
	}

	if !client.AllowsRedirectURI(strings.TrimSpace(req.RedirectURI)) {
		return ErrInvalidRedirectURI
	}

	return nil
}

// AuthenticateUser verifies a username/password pair and returns the subject
// identifier for the authenticated user. A failed lookup and a failed
// password check are indistinguishable: both return ErrInvalidCredentials.
func (s *AuthorizeService) AuthenticateUser(ctx context.Context, username, password string) (string, error) {
	log := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login failed: unknown user", "username", username)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if cryptox.VerifySecret(password, user.PasswordHash) != nil {
		log.Info("login failed: bad password", "username", username)
		return "", ErrInvalidCredentials
	}

	return user.Username, nil
}

// IssueCode mints a high-entropy single-use authorization code bound to the
// client, redirect URI, scope, and authenticated subject, and stores it with
// a fixed TTL. It is called only after ValidateRequest and AuthenticateUser
// have both succeeded.
//
// An entropy-source failure or a key collision aborts the operation; neither
// is a protocol error the client can act on.
func (s *AuthorizeService) IssueCode(ctx context.Context, clientID, redirectURI, scope, subject string, now time.Time) (domain.AuthorizationCode, error) {
	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.AuthorizationCode{}, fmt.Errorf("minting authorization code: %w", err)
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	record := domain.AuthorizationCode{
		ID:          idx.New().String(),
		Code:        code,
		ClientID:    clientID,
		RedirectURI: redirectURI,
		Scope:       scope,
		Subject:     subject,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}

	if err := s.Store.AuthorizationCodes().PutAuthorizationCode(ctx, record); err != nil {
		// A collision at 256 bits of entropy means something is badly wrong
		// with the entropy source; surface it instead of retrying.
		return domain.AuthorizationCode{}, fmt.Errorf("storing authorization code: %w", err)
	}

	slogx.FromContext(ctx).Info("authorization code issued",
		"code_id", record.ID,
		"client_id", clientID,
		"subject", subject,
	)

	return record, nil
}
