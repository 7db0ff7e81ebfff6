package provsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the provisioning service. Methods taking a token perform
// authenticated calls; the token comes from Signup or Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Signup registers an account (bootstrap, invitation or direct join).
func (c *Client) Signup(ctx context.Context, req SignupRequest) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/signup", "", req, &out)
	return out, err
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/login", "", LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// CreateBusiness provisions a workspace. SuperAdmin only.
func (c *Client) CreateBusiness(ctx context.Context, token string, req CreateBusinessRequest) (BusinessResponse, error) {
	var out BusinessResponse
	err := c.do(ctx, http.MethodPost, "/v1/businesses", token, req, &out)
	return out, err
}

// CreateInvitation mints an invitation; the response carries the raw token.
func (c *Client) CreateInvitation(ctx context.Context, token string, req CreateInvitationRequest) (InvitationResponse, error) {
	var out InvitationResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations", token, req, &out)
	return out, err
}

// ValidateInvitation resolves an invitation token without consuming it.
func (c *Client) ValidateInvitation(ctx context.Context, invitationToken string) (InvitationResponse, error) {
	var out InvitationResponse
	path := "/v1/invitations/validate?token=" + url.QueryEscape(invitationToken)
	err := c.do(ctx, http.MethodGet, path, "", nil, &out)
	return out, err
}

// AcceptInvitation consumes a token and creates the account with a session.
func (c *Client) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations/accept", "", req, &out)
	return out, err
}

// ResendInvitation rotates the token on a pending invitation.
func (c *Client) ResendInvitation(ctx context.Context, token, invitationID string) (InvitationResponse, error) {
	var out InvitationResponse
	path := fmt.Sprintf("/v1/invitations/%s/resend", url.PathEscape(invitationID))
	err := c.do(ctx, http.MethodPost, path, token, nil, &out)
	return out, err
}

// RevokeInvitation cancels a pending invitation.
func (c *Client) RevokeInvitation(ctx context.Context, token, invitationID string) error {
	path := "/v1/invitations/" + url.PathEscape(invitationID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// ListInvitations returns a business's invitations, newest first.
func (c *Client) ListInvitations(ctx context.Context, token, businessID string) (InvitationListResponse, error) {
	var out InvitationListResponse
	path := fmt.Sprintf("/v1/businesses/%s/invitations", url.PathEscape(businessID))
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

// DeactivateUser deactivates an account and frees its seat.
func (c *Client) DeactivateUser(ctx context.Context, token, userID string) error {
	path := "/v1/users/" + url.PathEscape(userID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// SubmitAdminRequest files a self-service admin request. Unauthenticated.
func (c *Client) SubmitAdminRequest(ctx context.Context, req SubmitAdminRequestRequest) (AdminRequestResponse, error) {
	var out AdminRequestResponse
	err := c.do(ctx, http.MethodPost, "/v1/admin-requests", "", req, &out)
	return out, err
}

// ListAdminRequests returns all admin requests for review.
func (c *Client) ListAdminRequests(ctx context.Context, token string) (AdminRequestListResponse, error) {
	var out AdminRequestListResponse
	err := c.do(ctx, http.MethodGet, "/v1/admin-requests", token, nil, &out)
	return out, err
}

// ProcessAdminRequest approves or rejects a pending admin request.
func (c *Client) ProcessAdminRequest(ctx context.Context, token, requestID string, req ProcessAdminRequestRequest) (AdminRequestResponse, error) {
	var out AdminRequestResponse
	path := "/v1/admin-requests/" + url.PathEscape(requestID)
	err := c.do(ctx, http.MethodPost, path, token, req, &out)
	return out, err
}

// MemberQuotas returns the quota snapshot for a business.
func (c *Client) MemberQuotas(ctx context.Context, token, businessID string) (QuotaResponse, error) {
	var out QuotaResponse
	path := fmt.Sprintf("/v1/businesses/%s/member-quotas", url.PathEscape(businessID))
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

// Readyz reports whether the service is ready to accept traffic.
func (c *Client) Readyz(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/readyz", "", nil, nil)
}

// do performs one JSON round trip. A nil body sends no payload; a nil out
// discards the response body. Non-2xx responses decode into APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        envelope.Error,
			Description: envelope.ErrorDescription,
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
