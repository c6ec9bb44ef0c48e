package oauthsdk

// TokenResponse is the token endpoint's success payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// ErrorResponse is the standard OAuth2 error payload.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// UserInfoResponse is the payload of the protected identity endpoint.
type UserInfoResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// ProfileResponse is the payload of the protected profile endpoint.
type ProfileResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
}

// Post is a single entry in the protected posts endpoint.
type Post struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// PostsResponse is the payload of the protected posts endpoint.
type PostsResponse struct {
	Username string `json:"username"`
	Posts    []Post `json:"posts"`
}

// ServiceInfoResponse describes the server and its endpoints, served at /.
type ServiceInfoResponse struct {
	Name                string            `json:"name"`
	Version             string            `json:"version"`
	Endpoints           map[string]string `json:"endpoints"`
	SupportedGrantTypes []string          `json:"supported_grant_types"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Store string `json:"store"`
}

// HealthResponse is the payload of the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
