package http

import (
	"encoding/json"
	"net/http"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
)

type AdminRequestSubmitHandler struct {
	AdminRequestService *service.AdminRequestService
}

// ServeHTTP godoc
//
//	@Summary		Submit Admin Request Endpoint
//	@Description	Files a self-service request for the Admin role. One pending request per email; resolution is a human decision via the process endpoint.
//	@Tags			AdminRequests
//	@Accept			json
//	@Produce		json
//	@Param			request	body		provsdk.SubmitAdminRequestRequest	true	"Admin request"
//	@Success		201		{object}	provsdk.AdminRequestResponse		"pending request"
//	@Failure		400		{object}	provsdk.ErrorResponse				"error, error_description"
//	@Failure		409		{object}	provsdk.ErrorResponse				"error, error_description"
//	@Router			/v1/admin-requests [post].
func (h *AdminRequestSubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req provsdk.SubmitAdminRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	created, err := h.AdminRequestService.Submit(ctx, req.Name, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAdminRequestResponse(created))
}

type AdminRequestListHandler struct {
	AuthService         *service.AuthService
	AdminRequestService *service.AdminRequestService
}

// ServeHTTP godoc
//
//	@Summary		List Admin Requests Endpoint
//	@Description	Returns all admin requests newest first. Requires the admins:manage permission.
//	@Tags			AdminRequests
//	@Produce		json
//	@Success		200	{object}	provsdk.AdminRequestListResponse	"requests"
//	@Failure		403	{object}	provsdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin-requests [get].
func (h *AdminRequestListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := requireUser(ctx, w, r, h.AuthService)
	if !ok {
		return
	}

	reqs, err := h.AdminRequestService.List(ctx, actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := provsdk.AdminRequestListResponse{
		Requests: make([]provsdk.AdminRequestResponse, 0, len(reqs)),
	}
	for _, req := range reqs {
		out.Requests = append(out.Requests, toAdminRequestResponse(req))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type AdminRequestProcessHandler struct {
	AuthService         *service.AuthService
	AdminRequestService *service.AdminRequestService
}

// ServeHTTP godoc
//
//	@Summary		Process Admin Request Endpoint
//	@Description	Approves or rejects a pending admin request. Approval elevates the existing account with the request email and settles the quota ledger atomically; rejection stores the reviewer's reason.
//	@Tags			AdminRequests
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Request ID"
//	@Param			request	body		provsdk.ProcessAdminRequestRequest	true	"Decision"
//	@Success		200		{object}	provsdk.AdminRequestResponse		"processed request"
//	@Failure		403		{object}	provsdk.ErrorResponse				"error, error_description"
//	@Failure		404		{object}	provsdk.ErrorResponse				"error, error_description"
//	@Failure		409		{object}	provsdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin-requests/{id} [post].
func (h *AdminRequestProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, provsdk.ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	var req provsdk.ProcessAdminRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	var approve bool
	switch req.Decision {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		writeBadRequest(w, `decision must be "approve" or "reject"`)
		return
	}

	processed, err := h.AdminRequestService.Process(ctx, userID, r.PathValue("id"), approve, req.Reason)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAdminRequestResponse(processed))
}
