package http

import (
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
)

type UserDeactivateHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Deactivate User Endpoint
//	@Description	Deactivates an account and frees its seat. Accounts are never hard-deleted; a deactivated user can no longer log in or act. SuperAdmins cannot be deactivated.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"no content"
//	@Failure		403	{object}	provsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	provsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [delete].
func (h *UserDeactivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	if err := h.UserService.Deactivate(ctx, actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
