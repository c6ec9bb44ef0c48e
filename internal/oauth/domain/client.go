package domain

import "time"

// Client is a registered OAuth2 application. Registrations are immutable
// after process start; lookup is by ID only.
type Client struct {
	ID           string
	Name         string
	SecretHash   string
	RedirectURIs []string
	CreatedAt    time.Time
}

// AllowsRedirectURI reports whether uri is a member of the client's
// registered redirect set. Matching is exact string equality, no wildcard
// or prefix matching.
func (c Client) AllowsRedirectURI(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}
