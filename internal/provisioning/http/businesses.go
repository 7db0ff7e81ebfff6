package http

import (
	"encoding/json"
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
)

type BusinessCreateHandler struct {
	AuthService     *service.AuthService
	BusinessService *service.BusinessService
}

// ServeHTTP godoc
//
//	@Summary		Create Business Endpoint
//	@Description	Provisions a new workspace with seat limits. SuperAdmin only; omitted limits take the configured defaults.
//	@Tags			Businesses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		provsdk.CreateBusinessRequest	true	"Business request"
//	@Success		201		{object}	provsdk.BusinessResponse		"created business"
//	@Failure		400		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	provsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/businesses [post].
func (h *BusinessCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	var req provsdk.CreateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	b, err := h.BusinessService.Create(ctx, actor, req.Name, req.MaxAdmins, req.MaxMembers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, provsdk.BusinessResponse{
		ID:         b.ID,
		Name:       b.Name,
		MaxAdmins:  b.MaxAdmins,
		MaxMembers: b.MaxMembers,
	})
}
