// Package provsdk is the typed client for the CrewDesk provisioning
// service. The wire types here are the canonical request/response shapes;
// the HTTP handlers marshal exactly these.
package provsdk

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	// Error is a stable machine-readable code (e.g. "invalid_request",
	// "quota_exceeded").
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error.
	ErrorDescription string `json:"error_description"`
}

// SignupRequest covers all three signup variants. InvitationToken takes
// precedence over BusinessID; on an empty system both are ignored and the
// caller becomes the SuperAdmin.
type SignupRequest struct {
	Email           string `json:"email"`
	DisplayName     string `json:"display_name"`
	Password        string `json:"password"`
	InvitationToken string `json:"invitation_token,omitempty"`
	BusinessID      string `json:"business_id,omitempty"`
}

// LoginRequest carries credentials for POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"`
	UserID      string  `json:"user_id"`
	Role        string  `json:"role"`
	BusinessID  *string `json:"business_id,omitempty"`
}

// CreateInvitationRequest mints an invitation for an email/role pair.
type CreateInvitationRequest struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	BusinessID string `json:"business_id"`
}

// InvitationResponse describes an invitation. Token is only populated on
// creation and resend; it is never readable again afterwards.
type InvitationResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	BusinessID string `json:"business_id"`
	Status     string `json:"status"`
	ExpiresAt  int64  `json:"expires_at"` // unix seconds
	InvitedBy  string `json:"invited_by"`
	Token      string `json:"token,omitempty"`
}

// InvitationListResponse wraps the per-business invitation listing.
type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

// AcceptInvitationRequest consumes a token and creates the invited account.
type AcceptInvitationRequest struct {
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// SubmitAdminRequestRequest files a self-service admin request.
type SubmitAdminRequestRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProcessAdminRequestRequest resolves a pending request. Decision is
// "approve" or "reject"; Reason is stored verbatim.
type ProcessAdminRequestRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// AdminRequestResponse describes an admin request.
type AdminRequestResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Status      string  `json:"status"`
	Reason      string  `json:"reason,omitempty"`
	RequestedAt int64   `json:"requested_at"` // unix seconds
	ProcessedAt *int64  `json:"processed_at,omitempty"`
	ProcessedBy *string `json:"processed_by,omitempty"`
}

// AdminRequestListResponse wraps the review listing.
type AdminRequestListResponse struct {
	Requests []AdminRequestResponse `json:"requests"`
}

// CreateBusinessRequest provisions a workspace. Zero limits take the
// server-side defaults.
type CreateBusinessRequest struct {
	Name       string `json:"name"`
	MaxAdmins  int    `json:"max_admins,omitempty"`
	MaxMembers int    `json:"max_members,omitempty"`
}

// BusinessResponse describes a workspace.
type BusinessResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MaxAdmins  int    `json:"max_admins"`
	MaxMembers int    `json:"max_members"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	// Checks is only populated by readyz.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// QuotaResponse is the member-quotas projection.
type QuotaResponse struct {
	BusinessID         string `json:"business_id"`
	MaxAdmins          int    `json:"max_admins"`
	MaxMembers         int    `json:"max_members"`
	CurrentAdmins      int    `json:"current_admins"`
	CurrentMembers     int    `json:"current_members"`
	EffectiveMaxAdmins int    `json:"effective_max_admins"`
}
