package http

import (
	"net/http"

	"github.com/toydev/grantd/pkg/httpx"
	"github.com/toydev/grantd/pkg/oauthsdk"
)

// RootHandler serves GET / with service metadata so a browser poking at the
// base URL discovers the endpoints.
func RootHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := oauthsdk.ServiceInfoResponse{
			Name:    "grantd",
			Version: version,
			Endpoints: map[string]string{
				"authorize": "/v1/oauth2/authorize",
				"token":     "/v1/oauth2/token",
				"me":        "/v1/api/me",
				"profile":   "/v1/api/profile",
				"posts":     "/v1/api/posts",
			},
			SupportedGrantTypes: []string{"authorization_code"},
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
