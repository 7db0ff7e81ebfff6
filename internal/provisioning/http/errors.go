// Package http exposes the provisioning workflows over JSON endpoints.
// Handlers stay thin: decode, call the service, map the error taxonomy onto
// the shared envelope. Authorization decisions live in the services, always
// against a store re-read of the caller, never the token payload.
package http

import (
	"errors"
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses and
// the standard envelope. Unrecognized errors become opaque 500s.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var code string
	var status int
	var desc string

	switch {
	case errors.Is(err, service.ErrValidation):
		status, code, desc = http.StatusBadRequest, "invalid_request", "Request is missing or has malformed fields"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, code, desc = http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect"
	case errors.Is(err, service.ErrAccountDisabled):
		status, code, desc = http.StatusForbidden, "account_disabled", "This account has been deactivated"
	case errors.Is(err, service.ErrPermissionDenied):
		status, code, desc = http.StatusForbidden, "permission_denied", "You are not allowed to perform this operation"
	case errors.Is(err, service.ErrQuotaExceeded):
		status, code, desc = http.StatusConflict, "quota_exceeded", "The business has no free seat for this role"
	case errors.Is(err, service.ErrInvalidInvitation):
		status, code, desc = http.StatusNotFound, "invalid_invitation", "Invitation not found or revoked"
	case errors.Is(err, service.ErrInvitationExpired):
		status, code, desc = http.StatusGone, "invitation_expired", "Invitation is past its expiry"
	case errors.Is(err, service.ErrInvitationAlreadyConsumed):
		status, code, desc = http.StatusConflict, "invitation_consumed", "Invitation has already been used"
	case errors.Is(err, service.ErrEmailTaken):
		status, code, desc = http.StatusConflict, "email_taken", "An account with this email already exists"
	case errors.Is(err, service.ErrDuplicateRequest):
		status, code, desc = http.StatusConflict, "duplicate_request", "A pending request already exists for this email"
	case errors.Is(err, service.ErrAlreadyProcessed):
		status, code, desc = http.StatusConflict, "already_processed", "Request has already been processed"
	case errors.Is(err, service.ErrNoSuchAccount):
		status, code, desc = http.StatusNotFound, "no_such_account", "No active account matches the request email"
	case errors.Is(err, service.ErrNotFound):
		status, code, desc = http.StatusNotFound, "not_found", "Resource not found"
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		status, code, desc = http.StatusInternalServerError, "server_error", "Something went wrong"
	}

	httpx.WriteJSON(w, status, provsdk.ErrorResponse{
		Error:            code,
		ErrorDescription: desc,
	})
}

// writeBadRequest is the envelope for decode failures and missing fields
// caught before the service layer.
func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, provsdk.ErrorResponse{
		Error:            "invalid_request",
		ErrorDescription: desc,
	})
}
