package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/toydev/grantd/internal/oauth/service"
	"github.com/toydev/grantd/pkg/httpx"
	"github.com/toydev/grantd/pkg/oauthsdk"
	"github.com/toydev/grantd/pkg/slogx"
)

// TokenHandler serves POST /v1/oauth2/token
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
type TokenHandler struct {
	TokenService *service.TokenService
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		oauthsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		oauthsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req := service.ExchangeRequest{
		GrantType:    strings.TrimSpace(r.Form.Get("grant_type")),
		Code:         strings.TrimSpace(r.Form.Get("code")),
		RedirectURI:  strings.TrimSpace(r.Form.Get("redirect_uri")),
		ClientID:     strings.TrimSpace(r.Form.Get("client_id")),
		ClientSecret: r.Form.Get("client_secret"),
	}

	if req.GrantType == "" || req.ClientID == "" {
		oauthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	token, err := h.TokenService.Exchange(ctx, req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedGrantType):
			oauthsdk.ErrUnsupportedGrantType.WriteError(w)
		case errors.Is(err, service.ErrInvalidClient):
			oauthsdk.ErrInvalidClient.WriteError(w)
		case errors.Is(err, service.ErrInvalidGrant):
			oauthsdk.ErrInvalidGrant.WriteError(w)
		default:
			log.Error("authorization_code grant failed", "error", err)
			oauthsdk.ErrServerError.WriteError(w)
		}
		return
	}

	response := oauthsdk.TokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresIn:   int(token.ExpiresAt.Sub(token.IssuedAt).Seconds()),
		Scope:       strings.TrimSpace(token.Scope),
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
