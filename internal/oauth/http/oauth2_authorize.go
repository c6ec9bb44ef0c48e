package http

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/toydev/grantd/internal/oauth/service"
	"github.com/toydev/grantd/pkg/oauthsdk"
	"github.com/toydev/grantd/pkg/slogx"
)

// AuthorizeHandler processes OAuth2 authorization requests (authorization code flow).
//
// GET renders the login/consent form after validating the request; POST
// authenticates the resource owner and redirects back to the client with a
// single-use code. Validation errors are always JSON, never redirected: an
// unvalidated redirect_uri must not be trusted for error delivery.
type AuthorizeHandler struct {
	AuthorizeService *service.AuthorizeService
}

// consentTemplate is the interactive login form. The authorization request
// parameters ride along as hidden fields so the POST carries the full
// request back.
var consentTemplate = template.Must(template.New("consent").Parse(`<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
  <h1>Sign in to continue</h1>
  <p>{{.ClientID}} is requesting access{{if .Scope}} to: {{.Scope}}{{end}}.</p>
  <form method="post" action="/v1/oauth2/authorize">
    <input type="hidden" name="response_type" value="{{.ResponseType}}">
    <input type="hidden" name="client_id" value="{{.ClientID}}">
    <input type="hidden" name="redirect_uri" value="{{.RedirectURI}}">
    <input type="hidden" name="scope" value="{{.Scope}}">
    <input type="hidden" name="state" value="{{.State}}">
    <label>Username <input type="text" name="username" autocomplete="username"></label>
    <label>Password <input type="password" name="password" autocomplete="current-password"></label>
    <button type="submit" name="action" value="approve">Authorize</button>
    <button type="submit" name="action" value="deny">Deny</button>
  </form>
</body>
</html>
`))

// HandleGet validates the authorization request and renders the consent form.
func (h *AuthorizeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.AuthorizeService == nil {
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	ctx := r.Context()
	req := buildAuthorizeRequest(nil, r.URL.Query())

	if err := h.AuthorizeService.ValidateRequest(ctx, req); err != nil {
		h.writeAuthorizeError(w, r, req, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := consentTemplate.Execute(w, req); err != nil {
		slogx.FromContext(ctx).Error("failed to render consent form", "error", err)
	}
}

// HandlePost authenticates the submitted credentials and, on success,
// redirects to the validated redirect_uri with the issued code.
func (h *AuthorizeHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if h.AuthorizeService == nil {
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		oauthsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		oauthsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	ctx := r.Context()
	req := buildAuthorizeRequest(r.Form, r.URL.Query())

	// Full request validation runs again on POST: the hidden form fields
	// came from the client and cannot be trusted to still match a
	// registration.
	if err := h.AuthorizeService.ValidateRequest(ctx, req); err != nil {
		h.writeAuthorizeError(w, r, req, err)
		return
	}

	// The resource owner declined. No credentials are checked and no code
	// is minted; absence of the field means approval (programmatic clients
	// do not send it).
	if r.Form.Get("action") == "deny" {
		slogx.FromContext(ctx).Info("authorization denied by resource owner", "client_id", req.ClientID)
		oauthsdk.ErrAccessDenied.WriteError(w)
		return
	}

	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")

	subject, err := h.AuthorizeService.AuthenticateUser(ctx, username, password)
	if err != nil {
		h.writeAuthorizeError(w, r, req, err)
		return
	}

	code, err := h.AuthorizeService.IssueCode(ctx, req.ClientID, req.RedirectURI, req.Scope, subject, time.Now())
	if err != nil {
		slogx.FromContext(ctx).Error("failed to issue authorization code", "error", err)
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	redirectURL, err := buildAuthorizeRedirect(req.RedirectURI, code.Code, req.State)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to build redirect URL", "error", err)
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// buildAuthorizeRequest assembles the request parameters, preferring form
// fields over query parameters when both are present.
func buildAuthorizeRequest(primary, secondary url.Values) service.AuthorizeRequest {
	pick := func(key string) string {
		if primary != nil {
			if v := strings.TrimSpace(primary.Get(key)); v != "" {
				return v
			}
		}
		if secondary != nil {
			return strings.TrimSpace(secondary.Get(key))
		}
		return ""
	}

	return service.AuthorizeRequest{
		ResponseType: pick("response_type"),
		ClientID:     pick("client_id"),
		RedirectURI:  pick("redirect_uri"),
		Scope:        pick("scope"),
		State:        pick("state"),
	}
}

func (h *AuthorizeHandler) writeAuthorizeError(w http.ResponseWriter, r *http.Request, req service.AuthorizeRequest, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrUnsupportedResponseType):
		oauthsdk.ErrUnsupportedResponseType.WriteError(w)
	case errors.Is(err, service.ErrInvalidClient):
		log.Info("authorize rejected: unknown client", "client_id", req.ClientID)
		oauthsdk.ErrInvalidClient.WriteError(w)
	case errors.Is(err, service.ErrInvalidRedirectURI):
		log.Info("authorize rejected: unregistered redirect_uri",
			"client_id", req.ClientID,
			"redirect_uri", req.RedirectURI,
		)
		oauthsdk.ErrInvalidRedirectURI.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		oauthsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		oauthsdk.ErrInvalidRequest.WriteError(w)
	default:
		log.Error("authorize request failed", "error", err)
		oauthsdk.ErrServerError.WriteError(w)
	}
}

// buildAuthorizeRedirect constructs the redirect URL for a successful
// authorization. State is echoed back only when the client supplied one.
func buildAuthorizeRedirect(baseURI, code, state string) (string, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
