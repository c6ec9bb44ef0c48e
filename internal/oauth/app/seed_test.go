package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toydev/grantd/pkg/cryptox"
)

func TestSeedFromConfigDefaults(t *testing.T) {
	t.Parallel()

	seed, err := SeedFromConfig(Config{})
	require.NoError(t, err)

	require.Len(t, seed.Clients, 1)
	client := seed.Clients[0]
	require.Equal(t, "demo-client-id", client.ID)
	require.Equal(t, []string{"http://localhost:5001/callback"}, client.RedirectURIs)
	require.NoError(t, cryptox.VerifySecret("demo-client-secret", client.SecretHash))

	require.Len(t, seed.Users, 1)
	user := seed.Users[0]
	require.Equal(t, "demo-user", user.Username)
	require.NoError(t, cryptox.VerifySecret("demo-password", user.PasswordHash))

	require.Len(t, seed.Posts["demo-user"], 3)
}

func TestSeedFromConfigOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		ClientsJSON: `[{"id":"acme","name":"Acme","secret":"hunter2","redirect_uris":["https://acme.example/cb"]}]`,
		UsersJSON:   `[{"username":"alice","password":"p4ss","name":"Alice","email":"alice@example.com"}]`,
	}

	seed, err := SeedFromConfig(cfg)
	require.NoError(t, err)

	require.Len(t, seed.Clients, 1)
	require.Equal(t, "acme", seed.Clients[0].ID)
	require.NoError(t, cryptox.VerifySecret("hunter2", seed.Clients[0].SecretHash))

	require.Len(t, seed.Users, 1)
	require.Equal(t, "alice", seed.Users[0].Username)
	require.Equal(t, "u-alice", seed.Users[0].ID)

	// Demo posts do not ride along with configured users.
	require.Empty(t, seed.Posts)
}

func TestSeedFromConfigRejectsIncompleteEntries(t *testing.T) {
	t.Parallel()

	_, err := SeedFromConfig(Config{ClientsJSON: `[{"id":"acme"}]`})
	require.Error(t, err)

	_, err = SeedFromConfig(Config{UsersJSON: `[{"username":"alice"}]`})
	require.Error(t, err)

	_, err = SeedFromConfig(Config{ClientsJSON: `not json`})
	require.Error(t, err)
}
