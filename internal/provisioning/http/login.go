package http

import (
	"encoding/json"
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Exchanges email and password for a bearer session token. Unknown email and wrong password are indistinguishable.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		provsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	provsdk.SessionResponse	"access_token, role, business_id"
//	@Failure		400		{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	provsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req provsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	sess, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}
