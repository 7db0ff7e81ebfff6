package http

import (
	"context"
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
)

func toSessionResponse(s domain.Session) provsdk.SessionResponse {
	return provsdk.SessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresIn:   s.ExpiresIn,
		UserID:      s.UserID,
		Role:        string(s.Role),
		BusinessID:  s.BusinessID,
	}
}

// toInvitationResponse projects an invitation onto the wire. token must be
// "" except on the create and resend paths.
func toInvitationResponse(inv domain.Invitation, token string) provsdk.InvitationResponse {
	return provsdk.InvitationResponse{
		ID:         inv.ID,
		Email:      inv.Email,
		Role:       string(inv.Role),
		BusinessID: inv.BusinessID,
		Status:     string(inv.Status),
		ExpiresAt:  inv.ExpiresAt.Unix(),
		InvitedBy:  inv.InvitedBy,
		Token:      token,
	}
}

func toAdminRequestResponse(req domain.AdminRequest) provsdk.AdminRequestResponse {
	out := provsdk.AdminRequestResponse{
		ID:          req.ID,
		Name:        req.Name,
		Email:       req.Email,
		Status:      string(req.Status),
		Reason:      req.Reason,
		RequestedAt: req.RequestedAt.Unix(),
		ProcessedBy: req.ProcessedBy,
	}
	if req.ProcessedAt != nil {
		at := req.ProcessedAt.Unix()
		out.ProcessedAt = &at
	}
	return out
}

// requireUser resolves the authenticated caller from the request context by
// re-reading the store. Writes the error response itself on failure.
func requireUser(ctx context.Context, w http.ResponseWriter, r *http.Request, auth *service.AuthService) (domain.User, bool) {
	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, provsdk.ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return domain.User{}, false
	}

	user, err := auth.RefreshUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return domain.User{}, false
	}
	return user, true
}
