package domain

import "time"

// AuthorizationCode is one pending grant. The store keys it by the raw
// opaque Code value; existence in the store is what "not yet consumed"
// means, and removal is consumption.
type AuthorizationCode struct {
	ID          string // ULID, used only for logging
	Code        string
	ClientID    string
	RedirectURI string
	Scope       string
	Subject     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// IsExpired reports whether the code is past its expiry at the given time.
func (c AuthorizationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
