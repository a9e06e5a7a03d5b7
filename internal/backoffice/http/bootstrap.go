package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledgerline/backoffice/internal/backoffice/service"
	"github.com/ledgerline/backoffice/pkg/httpx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

// BootstrapHandler seeds the first system administrator.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

type bootstrapRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// HandleBootstrap handles POST /v1/bootstrap
//
//	@Summary		Bootstrap the first system administrator
//	@Description	Only works against an empty store and with the pre-shared bootstrap token.
//	@Tags			System
//	@Accept			json
//	@Produce		json
//	@Param			request	body		bootstrapRequest	true	"Bootstrap token and admin account"
//	@Success		201		{object}	map[string]string	"Created admin id"
//	@Failure		401		{object}	httpx.APIError		"Bad bootstrap token"
//	@Failure		409		{object}	httpx.APIError		"Store already has users"
//	@Router			/v1/bootstrap [post]
func (h *BootstrapHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req bootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.ErrInvalidToken.WithDescription("bad bootstrap token").WriteError(w)
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.ErrConflict.WithDescription("system is already bootstrapped").WriteError(w)
		case errors.Is(err, service.ErrInvalidRegister):
			httpx.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("bootstrap failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}
