package oauthsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/toydev/grantd/pkg/httpx"
)

// OAuth2 error codes per RFC 6749, surfaced as literal strings on the wire.
const (
	ErrorCodeInvalidRequest          = "invalid_request"
	ErrorCodeUnsupportedResponseType = "unsupported_response_type"
	ErrorCodeInvalidClient           = "invalid_client"
	ErrorCodeInvalidRedirectURI      = "invalid_redirect_uri"
	ErrorCodeAccessDenied            = "access_denied"
	ErrorCodeInvalidCredentials      = "invalid_credentials"
	ErrorCodeUnsupportedGrantType    = "unsupported_grant_type"
	ErrorCodeInvalidGrant            = "invalid_grant"
	ErrorCodeInvalidToken            = "invalid_token"
	ErrorCodeTokenExpired            = "token_expired"
	ErrorCodeServerError             = "server_error"
)

// OAuth2Error represents a standard OAuth2 error response. It implements the
// error interface and is used both by the server (to write HTTP responses)
// and by the SDK client (to represent errors it received).
type OAuth2Error struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the OAuth2 error code (e.g. "invalid_grant").
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

func (e *OAuth2Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this OAuth2Error to an HTTP response writer.
func (e *OAuth2Error) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter or is otherwise malformed.
	ErrInvalidRequest = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrUnsupportedResponseType is returned when response_type is anything
	// other than "code".
	ErrUnsupportedResponseType = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnsupportedResponseType,
		Description: "only the authorization code response type is supported",
	}

	// ErrInvalidClient is returned when the client is unregistered or client
	// authentication failed.
	ErrInvalidClient = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidClient,
		Description: "invalid client",
	}

	// ErrInvalidRedirectURI is returned when redirect_uri is not registered
	// for the client. The URI is never trusted for error delivery.
	ErrInvalidRedirectURI = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRedirectURI,
		Description: "redirect_uri is not registered for this client",
	}

	// ErrAccessDenied is returned when the resource owner denied the request.
	ErrAccessDenied = &OAuth2Error{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccessDenied,
		Description: "access denied",
	}

	// ErrInvalidCredentials is returned on a failed login. It never reveals
	// whether the username or the password was wrong.
	ErrInvalidCredentials = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	// ErrUnsupportedGrantType is returned when grant_type is anything other
	// than "authorization_code".
	ErrUnsupportedGrantType = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnsupportedGrantType,
		Description: "grant type not supported",
	}

	// ErrInvalidGrant is returned when the authorization code is unknown,
	// expired, already used, or bound to a different client or redirect_uri.
	// Those cases are deliberately indistinguishable on the wire.
	ErrInvalidGrant = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidGrant,
		Description: "invalid authorization code",
	}

	// ErrInvalidToken is returned when the access token is unknown.
	ErrInvalidToken = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is invalid",
	}

	// ErrTokenExpired is returned when the access token exists but is past
	// its expiry.
	ErrTokenExpired = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenExpired,
		Description: "the access token has expired",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &OAuth2Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrInvalidContentType is returned when the token endpoint receives a
	// body that is not application/x-www-form-urlencoded.
	ErrInvalidContentType = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "content-type must be application/x-www-form-urlencoded",
	}

	// ErrInvalidFormBody is returned when the form body cannot be parsed.
	ErrInvalidFormBody = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "invalid form body",
	}
)

// parseErrorResponse turns a non-2xx HTTP response into an *OAuth2Error.
// Returns nil for success responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &OAuth2Error{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &OAuth2Error{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
