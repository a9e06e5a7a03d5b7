package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/service"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/httpx"
	"github.com/ledgerline/backoffice/pkg/jwtx"
	"github.com/ledgerline/backoffice/pkg/slogx"

	_ "github.com/ledgerline/backoffice/api/backoffice" // Swagger docs
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

	store               store.Store
	AuthService         *service.AuthService
	TokenService        *service.TokenService
	MFAService          *service.MFAService
	TenantService       *service.TenantService
	RegistrationService *service.RegistrationService
	InviteService       *service.InviteService
	BootstrapService    *service.BootstrapService
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
	r.registerMFA()
	r.registerTenants()
	r.registerInvites()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Back Office Identity API
//	@version		0.1.0
//	@description	Authentication, session lifecycle and tenant authorization for the
//	@description	multi-tenant accounting back office. Issues HS256-signed access and
//	@description	refresh tokens and resolves company access for every scoped module.
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
	h := &AuthHandler{
		AuthService:         r.AuthService,
		TokenService:        r.TokenService,
		RegistrationService: r.RegistrationService,
	}

	// Credential endpoints carry the strictest per-IP limits.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleMFA),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout-all",
		httpx.Chain(http.HandlerFunc(h.HandleLogoutAll),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/mfa/totp/enroll", secured(h.HandleEnroll))
	r.Mux.Handle("POST /v1/mfa/totp/confirm", secured(h.HandleConfirm))
	r.Mux.Handle("POST /v1/mfa/totp/disable", secured(h.HandleDisable))
}

func (r *Router) registerTenants() {
	h := &TenantsHandler{TenantService: r.TenantService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/tenants/companies", secured(h.HandleListCompanies))
	r.Mux.Handle("GET /v1/tenants/companies/{id}/access", secured(h.HandleCheckAccess))
}

func (r *Router) registerInvites() {
	h := &InviteHandler{InviteService: r.InviteService}

	// Minting is an office-admin operation; the system role passes RequireRole
	// by being listed explicitly.
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(http.HandlerFunc(h.HandleMint),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(
				string(domain.RoleSystemAdmin),
				string(domain.RoleOfficeAdmin),
			),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Redemption is a public signup endpoint.
	r.Mux.Handle("POST /v1/invites/redeem",
		httpx.Chain(http.HandlerFunc(h.HandleRedeem),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}

	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(http.HandlerFunc(h.HandleBootstrap),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler())
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
	r.Mux.Handle("GET /version", VersionHandler(r.buildVersion, r.startTime))
}
