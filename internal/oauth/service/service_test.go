package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store"
	"github.com/toydev/grantd/internal/oauth/store/drivers/memory"
	"github.com/toydev/grantd/pkg/cryptox"
)

const (
	testClientID     = "demo-client-id"
	testClientSecret = "demo-client-secret"
	testRedirectURI  = "http://localhost:5001/callback"
	testUsername     = "demo-user"
	testPassword     = "demo-password"
)

// newTestStore seeds a memory store with one confidential client and one
// credentialed user.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	secretHash, err := cryptox.HashSecret(testClientSecret)
	require.NoError(t, err)
	passwordHash, err := cryptox.HashSecret(testPassword)
	require.NoError(t, err)

	return memory.NewStore(memory.Seed{
		Clients: []domain.Client{{
			ID:           testClientID,
			Name:         "Demo Client",
			SecretHash:   secretHash,
			RedirectURIs: []string{testRedirectURI},
			CreatedAt:    time.Now(),
		}},
		Users: []domain.User{{
			ID:           "u-demo",
			Username:     testUsername,
			PasswordHash: passwordHash,
			Name:         "Demo User",
			Email:        "demo@example.com",
		}},
	})
}
