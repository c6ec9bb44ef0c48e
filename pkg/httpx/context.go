package httpx

import "context"

type ctxKey string

const (
	// CtxKeySubject carries the authenticated user identifier of a validated
	// bearer token.
	CtxKeySubject ctxKey = "subject"
	// CtxKeyClientID carries the client the token was issued to.
	CtxKeyClientID ctxKey = "client_id"
	// CtxKeyScope carries the opaque scope string granted to the token.
	CtxKeyScope ctxKey = "scope"
)

// SubjectFromContext returns the authenticated subject, or "" when the
// request did not pass bearer validation.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(CtxKeySubject).(string)
	return s
}

// ScopeFromContext returns the token's scope string, or "".
func ScopeFromContext(ctx context.Context) string {
	s, _ := ctx.Value(CtxKeyScope).(string)
	return s
}

// ClientIDFromContext returns the token's client, or "".
func ClientIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(CtxKeyClientID).(string)
	return s
}
