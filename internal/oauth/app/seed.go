package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/toydev/grantd/internal/oauth/domain"
	"github.com/toydev/grantd/internal/oauth/store/drivers/memory"
	"github.com/toydev/grantd/pkg/cryptox"
)

// clientSeed and userSeed are the JSON shapes accepted by GRANTD_CLIENTS and
// GRANTD_USERS. Secrets arrive in plaintext and are hashed before they ever
// reach the store.
type clientSeed struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Secret       string   `json:"secret"`
	RedirectURIs []string `json:"redirect_uris"`
}

type userSeed struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
}

// SeedFromConfig builds the store seed from the environment, falling back to
// the demo fixtures when no registrations are configured.
func SeedFromConfig(cfg Config) (memory.Seed, error) {
	var seed memory.Seed

	clients, err := seedClients(cfg.ClientsJSON)
	if err != nil {
		return memory.Seed{}, err
	}
	seed.Clients = clients

	users, err := seedUsers(cfg.UsersJSON)
	if err != nil {
		return memory.Seed{}, err
	}
	seed.Users = users

	// Demo posts only make sense alongside the demo user.
	if cfg.UsersJSON == "" {
		seed.Posts = demoPosts()
	}

	return seed, nil
}

func seedClients(raw string) ([]domain.Client, error) {
	var seeds []clientSeed
	if raw == "" {
		seeds = []clientSeed{{
			ID:           "demo-client-id",
			Name:         "Demo Client",
			Secret:       "demo-client-secret",
			RedirectURIs: []string{"http://localhost:5001/callback"},
		}}
	} else if err := json.Unmarshal([]byte(raw), &seeds); err != nil {
		return nil, fmt.Errorf("parsing GRANTD_CLIENTS: %w", err)
	}

	clients := make([]domain.Client, 0, len(seeds))
	for _, s := range seeds {
		if s.ID == "" || s.Secret == "" || len(s.RedirectURIs) == 0 {
			return nil, fmt.Errorf("client %q: id, secret, and redirect_uris are required", s.ID)
		}

		hash, err := cryptox.HashSecret(s.Secret)
		if err != nil {
			return nil, fmt.Errorf("hashing secret for client %q: %w", s.ID, err)
		}

		clients = append(clients, domain.Client{
			ID:           s.ID,
			Name:         s.Name,
			SecretHash:   hash,
			RedirectURIs: s.RedirectURIs,
			CreatedAt:    time.Now(),
		})
	}

	return clients, nil
}

func seedUsers(raw string) ([]domain.User, error) {
	var seeds []userSeed
	if raw == "" {
		seeds = []userSeed{{
			ID:       "u-demo",
			Username: "demo-user",
			Password: "demo-password",
			Name:     "Demo User",
			Email:    "demo@example.com",
			Bio:      "Demo user for the authorization code flow.",
			Location: "Tokyo, Japan",
		}}
	} else if err := json.Unmarshal([]byte(raw), &seeds); err != nil {
		return nil, fmt.Errorf("parsing GRANTD_USERS: %w", err)
	}

	users := make([]domain.User, 0, len(seeds))
	for _, s := range seeds {
		if s.Username == "" || s.Password == "" {
			return nil, fmt.Errorf("user %q: username and password are required", s.Username)
		}

		hash, err := cryptox.HashSecret(s.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password for user %q: %w", s.Username, err)
		}

		id := s.ID
		if id == "" {
			id = "u-" + s.Username
		}

		users = append(users, domain.User{
			ID:           id,
			Username:     s.Username,
			PasswordHash: hash,
			Name:         s.Name,
			Email:        s.Email,
			Bio:          s.Bio,
			Location:     s.Location,
		})
	}

	return users, nil
}

func demoPosts() map[string][]domain.Post {
	return map[string][]domain.Post{
		"demo-user": {
			{
				ID:        1,
				Title:     "Getting started with OAuth 2.0",
				Content:   "Learned how the authorization code flow hands out single-use codes.",
				CreatedAt: "2025-10-01T10:00:00Z",
			},
			{
				ID:        2,
				Title:     "Building an authorization server",
				Content:   "Stood up a small authorization server with an in-memory store.",
				CreatedAt: "2025-10-02T15:30:00Z",
			},
			{
				ID:        3,
				Title:     "Access token lifetimes",
				Content:   "Worked through how token expiry is enforced on every request.",
				CreatedAt: "2025-10-03T09:15:00Z",
			},
		},
	}
}
