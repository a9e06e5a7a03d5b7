package http

import (
	"net/http"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/service"
	"github.com/ledgerline/backoffice/pkg/httpx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

// TenantsHandler exposes the tenant access resolver.
type TenantsHandler struct {
	TenantService *service.TenantService
}

type companiesResponse struct {
	All        bool     `json:"all"`
	CompanyIDs []string `json:"company_ids"`
}

type accessResponse struct {
	CompanyID string `json:"company_id"`
	Allowed   bool   `json:"allowed"`
}

func principalFromCtx(r *http.Request) (domain.Principal, bool) {
	claims, ok := httpx.ClaimsFromCtx(r.Context())
	if !ok {
		return domain.Principal{}, false
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Principal{}, false
	}

	return domain.Principal{ID: claims.Subject, Email: claims.Email, Role: role}, true
}

// HandleListCompanies handles GET /v1/tenants/companies
//
//	@Summary		List accessible companies
//	@Description	Resolves the caller's company set. System administrators get the
//	@Description	wildcard ("all": true with no ids); everyone else an explicit id list.
//	@Tags			Tenants
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	companiesResponse
//	@Failure		401	{object}	httpx.APIError	"Invalid or missing access token"
//	@Router			/v1/tenants/companies [get]
func (h *TenantsHandler) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := principalFromCtx(r)
	if !ok {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	set, err := h.TenantService.AccessibleCompanies(ctx, principal)
	if err != nil {
		log.Error("company resolution failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	ids := set.IDs
	if ids == nil {
		ids = []string{}
	}
	httpx.WriteJSON(w, http.StatusOK, companiesResponse{All: set.All, CompanyIDs: ids})
}

// HandleCheckAccess handles GET /v1/tenants/companies/{id}/access
//
//	@Summary		Check access to one company
//	@Description	Point query used by company-scoped modules; does not materialize the
//	@Description	caller's whole company set.
//	@Tags			Tenants
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Company id"
//	@Success		200	{object}	accessResponse
//	@Failure		401	{object}	httpx.APIError	"Invalid or missing access token"
//	@Router			/v1/tenants/companies/{id}/access [get]
func (h *TenantsHandler) HandleCheckAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := principalFromCtx(r)
	if !ok {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	companyID := r.PathValue("id")
	if companyID == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	allowed, err := h.TenantService.CanAccess(ctx, principal, companyID)
	if err != nil {
		log.Error("access check failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accessResponse{CompanyID: companyID, Allowed: allowed})
}
