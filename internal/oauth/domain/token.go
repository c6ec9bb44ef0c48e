package domain

import "time"

// TokenTypeBearer is the only token type the server issues.
const TokenTypeBearer = "Bearer"

// AccessToken is the proof of delegated access minted by a successful code
// exchange. The store keys it by the raw opaque Token value; a token is
// valid if and only if it is present and unexpired at the time of the check.
type AccessToken struct {
	ID        string // ULID, used only for logging
	Token     string
	TokenType string
	Subject   string
	ClientID  string
	Scope     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token is past its expiry at the given time.
// Validity is never cached; every resource request re-checks.
func (t AccessToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
