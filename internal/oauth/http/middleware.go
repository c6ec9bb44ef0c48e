package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/toydev/grantd/internal/oauth/service"
	"github.com/toydev/grantd/pkg/httpx"
	"github.com/toydev/grantd/pkg/oauthsdk"
	"github.com/toydev/grantd/pkg/slogx"
)

// AuthnMiddleware guards protected resource endpoints. It resolves the
// Authorization header against the token store on every request and injects
// the token's subject, client, and scope into the request context.
func AuthnMiddleware(bearer *service.BearerService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := bearer.Validate(ctx, r.Header.Get("Authorization"), time.Now())
			if err != nil {
				switch {
				case errors.Is(err, service.ErrInvalidRequest):
					oauthsdk.ErrInvalidRequest.WriteError(w)
				case errors.Is(err, service.ErrInvalidToken):
					oauthsdk.ErrInvalidToken.WriteError(w)
				case errors.Is(err, service.ErrTokenExpired):
					oauthsdk.ErrTokenExpired.WriteError(w)
				default:
					slogx.FromContext(ctx).Error("bearer validation failed", "error", err)
					oauthsdk.ErrServerError.WriteError(w)
				}
				return
			}

			ctx = context.WithValue(ctx, httpx.CtxKeySubject, token.Subject)
			ctx = context.WithValue(ctx, httpx.CtxKeyClientID, token.ClientID)
			ctx = context.WithValue(ctx, httpx.CtxKeyScope, token.Scope)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
