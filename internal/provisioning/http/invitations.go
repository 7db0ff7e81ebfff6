package http

import (
	"encoding/json"
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
)

type InvitationCreateHandler struct {
	AuthService       *service.AuthService
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Create Invitation Endpoint
//	@Description	Mints a single-use invitation token binding an email to a role and business. Admin invitations require SuperAdmin; Member/Client invitations require Admin or above.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		provsdk.CreateInvitationRequest	true	"Invitation request"
//	@Success		201		{object}	provsdk.InvitationResponse		"invitation with raw token"
//	@Failure		400		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	var req provsdk.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Role == "" || req.BusinessID == "" {
		writeBadRequest(w, "email, role and business_id are required")
		return
	}

	inv, token, err := h.InvitationService.Create(ctx, actor, req.Email, domain.Role(req.Role), req.BusinessID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInvitationResponse(inv, token))
}

type InvitationValidateHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Validate Invitation Endpoint
//	@Description	Resolves an invitation token to its email, role and business without consuming it. Expiry is evaluated against the wall clock.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	query		string						true	"Raw invitation token"
//	@Success		200		{object}	provsdk.InvitationResponse	"invitation details, no token"
//	@Failure		404		{object}	provsdk.ErrorResponse		"error, error_description"
//	@Failure		410		{object}	provsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/invitations/validate [get].
func (h *InvitationValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		writeBadRequest(w, "token query parameter is required")
		return
	}

	inv, err := h.InvitationService.Validate(ctx, token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv, ""))
}

type InvitationAcceptHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Accept Invitation Endpoint
//	@Description	Consumes an invitation token, creates the invited account and returns a live session. Equivalent to signup with an invitation token.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		provsdk.AcceptInvitationRequest	true	"Acceptance request"
//	@Success		201		{object}	provsdk.SessionResponse			"access_token, role, business_id"
//	@Failure		404		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Failure		410		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invitations/accept [post].
func (h *InvitationAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req provsdk.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Token == "" || req.DisplayName == "" || req.Password == "" {
		writeBadRequest(w, "token, display_name and password are required")
		return
	}

	// The invitation dictates email, role and business.
	sess, err := h.AuthService.Signup(ctx, service.SignupRequest{
		DisplayName:     req.DisplayName,
		Password:        req.Password,
		InvitationToken: req.Token,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSessionResponse(sess))
}

type InvitationResendHandler struct {
	AuthService       *service.AuthService
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Resend Invitation Endpoint
//	@Description	Rotates the token on a pending invitation and extends its expiry window. The previous token stops resolving.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string						true	"Invitation ID"
//	@Success		200	{object}	provsdk.InvitationResponse	"invitation with fresh token"
//	@Failure		403	{object}	provsdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	provsdk.ErrorResponse		"error, error_description"
//	@Failure		409	{object}	provsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/resend [post].
func (h *InvitationResendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	inv, token, err := h.InvitationService.Resend(ctx, actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv, token))
}

type InvitationRevokeHandler struct {
	AuthService       *service.AuthService
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invitation Endpoint
//	@Description	Cancels a pending invitation. Accepted or expired invitations are left untouched; revoking never affects an already provisioned user.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204	"no content"
//	@Failure		403	{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	provsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id} [delete].
func (h *InvitationRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	if err := h.InvitationService.Revoke(ctx, actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type InvitationListHandler struct {
	AuthService       *service.AuthService
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		List Business Invitations Endpoint
//	@Description	Returns a business's invitations newest first. Pending invitations past their window are reported as expired.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string							true	"Business ID"
//	@Success		200	{object}	provsdk.InvitationListResponse	"invitations"
//	@Failure		403	{object}	provsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/businesses/{id}/invitations [get].
func (h *InvitationListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	invs, err := h.InvitationService.ListByBusiness(ctx, actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := provsdk.InvitationListResponse{
		Invitations: make([]provsdk.InvitationResponse, 0, len(invs)),
	}
	for _, inv := range invs {
		out.Invitations = append(out.Invitations, toInvitationResponse(inv, ""))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
