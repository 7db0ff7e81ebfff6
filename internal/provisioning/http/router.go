package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/service"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/httpx"
	"github.com/crewdeskhq/crewdesk/pkg/jwtx"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"

	_ "github.com/crewdeskhq/crewdesk/api/provisioning" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService         *service.AuthService
	QuotaService        *service.QuotaService
	InvitationService   *service.InvitationService
	AdminRequestService *service.AdminRequestService
	BusinessService     *service.BusinessService
	UserService         *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvitations()
	r.registerAdminRequests()
	r.registerBusinesses()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			CrewDesk Provisioning Service API
//	@version		0.1.0
//	@description	Access provisioning for multi-tenant team workspaces: role/permission matrix, seat quotas, invitation lifecycle, admin self-requests and credential sessions.
//	@description
//	@description				Sessions are stateless EdDSA-signed JWTs. Privileged operations re-check the caller's role against the database on every request.
//
//	@contact.name				CrewDesk Team
//	@contact.url				https://github.com/crewdeskhq/crewdesk
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints carry the strictest limits: they are the brute
	// force surface.
	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(&SignupHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvitations() {
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(&InvitationCreateHandler{AuthService: r.AuthService, InvitationService: r.InvitationService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Validation is public: the invitee holds a token, not a session.
	r.Mux.Handle("GET /v1/invitations/validate",
		httpx.Chain(&InvitationValidateHandler{InvitationService: r.InvitationService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(&InvitationAcceptHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/invitations/{id}/resend",
		httpx.Chain(&InvitationResendHandler{AuthService: r.AuthService, InvitationService: r.InvitationService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/invitations/{id}",
		httpx.Chain(&InvitationRevokeHandler{AuthService: r.AuthService, InvitationService: r.InvitationService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdminRequests() {
	// Submission is public by design: the requester has no account powers
	// yet, possibly no account at all.
	r.Mux.Handle("POST /v1/admin-requests",
		httpx.Chain(&AdminRequestSubmitHandler{AdminRequestService: r.AdminRequestService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v1/admin-requests",
		httpx.Chain(&AdminRequestListHandler{AuthService: r.AuthService, AdminRequestService: r.AdminRequestService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/admin-requests/{id}",
		httpx.Chain(&AdminRequestProcessHandler{AuthService: r.AuthService, AdminRequestService: r.AdminRequestService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBusinesses() {
	r.Mux.Handle("POST /v1/businesses",
		httpx.Chain(&BusinessCreateHandler{AuthService: r.AuthService, BusinessService: r.BusinessService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/businesses/{id}/member-quotas",
		httpx.Chain(&QuotaHandler{AuthService: r.AuthService, QuotaService: r.QuotaService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /v1/businesses/{id}/invitations",
		httpx.Chain(&InvitationListHandler{AuthService: r.AuthService, InvitationService: r.InvitationService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(&UserDeactivateHandler{AuthService: r.AuthService, UserService: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
