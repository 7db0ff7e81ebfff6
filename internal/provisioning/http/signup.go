package http

import (
	"encoding/json"
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
)

type SignupHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Signup Endpoint
//	@Description	Registers an account. On an empty system the caller becomes the SuperAdmin; with an invitation token the invited role and business apply; otherwise an explicit business_id joins the caller as a Member subject to the member quota.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		provsdk.SignupRequest	true	"Signup request"
//	@Success		201		{object}	provsdk.SessionResponse	"access_token, role, business_id"
//	@Failure		400		{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	provsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req provsdk.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.DisplayName == "" || req.Password == "" {
		writeBadRequest(w, "email, display_name and password are required")
		return
	}

	sess, err := h.AuthService.Signup(ctx, service.SignupRequest{
		Email:           req.Email,
		DisplayName:     req.DisplayName,
		Password:        req.Password,
		InvitationToken: req.InvitationToken,
		BusinessID:      req.BusinessID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSessionResponse(sess))
}
