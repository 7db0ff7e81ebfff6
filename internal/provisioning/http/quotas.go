package http

import (
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
)

type QuotaHandler struct {
	AuthService  *service.AuthService
	QuotaService *service.QuotaService
}

// ServeHTTP godoc
//
//	@Summary		Member Quotas Endpoint
//	@Description	Returns the seat counters and limits for a business, with the global admin ceiling folded into effective_max_admins. Callers must belong to the business or be SuperAdmin.
//	@Tags			Businesses
//	@Produce		json
//	@Param			id	path		string					true	"Business ID"
//	@Success		200	{object}	provsdk.QuotaResponse	"quota snapshot"
//	@Failure		403	{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	provsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/businesses/{id}/member-quotas [get].
func (h *QuotaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	businessID := r.PathValue("id")
	if actor.Role != domain.RoleSuperAdmin && !actor.InBusiness(businessID) {
		writeServiceError(w, r, service.ErrPermissionDenied)
		return
	}

	snap, err := h.QuotaService.Snapshot(ctx, businessID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, provsdk.QuotaResponse{
		BusinessID:         snap.BusinessID,
		MaxAdmins:          snap.MaxAdmins,
		MaxMembers:         snap.MaxMembers,
		CurrentAdmins:      snap.CurrentAdmins,
		CurrentMembers:     snap.CurrentMembers,
		EffectiveMaxAdmins: snap.EffectiveMaxAdmins,
	})
}
