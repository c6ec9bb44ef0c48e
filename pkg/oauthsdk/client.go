package oauthsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin HTTP client for the grantd server. It drives the
// authorization code flow the way a relying application would: submit
// consent, capture the redirect, exchange the code, call protected
// resources.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a Client for the given base URL. Redirects are not
// followed so the authorization redirect can be inspected.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// AuthorizeRequest carries the fields of a consent submission.
type AuthorizeRequest struct {
	ClientID    string
	RedirectURI string
	Scope       string
	State       string
	Username    string
	Password    string
}

// AuthorizeResult is the outcome of a successful consent: the code and the
// echoed state extracted from the redirect target.
type AuthorizeResult struct {
	Code        string
	State       string
	RedirectURI string
}

// Authorize submits user credentials to the authorization endpoint and
// returns the issued code parsed from the 302 redirect.
func (c *Client) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error) {
	form := url.Values{
		"response_type": {"code"},
		"client_id":     {req.ClientID},
		"redirect_uri":  {req.RedirectURI},
		"scope":         {req.Scope},
		"state":         {req.State},
		"username":      {req.Username},
		"password":      {req.Password},
	}

	resp, body, err := c.postForm(ctx, "/v1/oauth2/authorize", form)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusFound {
		if err := parseErrorResponse(resp, body); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("oauthsdk: unexpected authorize status %d", resp.StatusCode)
	}

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		return nil, fmt.Errorf("oauthsdk: bad redirect location: %w", err)
	}

	q := location.Query()
	return &AuthorizeResult{
		Code:        q.Get("code"),
		State:       q.Get("state"),
		RedirectURI: location.String(),
	}, nil
}

// ExchangeCode redeems an authorization code at the token endpoint.
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}

	resp, body, err := c.postForm(ctx, "/v1/oauth2/token", form)
	if err != nil {
		return nil, err
	}
	if err := parseErrorResponse(resp, body); err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := unmarshalJSON(body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// UserInfo calls the protected identity endpoint with a bearer token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfoResponse, error) {
	var out UserInfoResponse
	if err := c.getJSON(ctx, "/v1/api/me", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile calls the protected profile endpoint with a bearer token.
func (c *Client) Profile(ctx context.Context, accessToken string) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.getJSON(ctx, "/v1/api/profile", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Posts calls the protected posts endpoint with a bearer token.
func (c *Client) Posts(ctx context.Context, accessToken string) (*PostsResponse, error) {
	var out PostsResponse
	if err := c.getJSON(ctx, "/v1/api/posts", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) getJSON(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := parseErrorResponse(resp, body); err != nil {
		return err
	}
	return unmarshalJSON(body, out)
}

func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}
