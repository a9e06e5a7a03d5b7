package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/service"
	"github.com/ledgerline/backoffice/pkg/httpx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

// DefaultInviteTTL bounds invites whose request omits an expiry.
const DefaultInviteTTL = 7 * 24 * time.Hour

// InviteHandler serves staff invite minting and redemption.
type InviteHandler struct {
	InviteService *service.InviteService
}

type inviteMintRequest struct {
	OfficeRole string     `json:"office_role"` // "admin" or "collaborator"
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type inviteMintResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type inviteRedeemRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// HandleMint handles POST /v1/invites
//
//	@Summary		Mint a staff invite
//	@Description	Creates a single-use invite into the caller's office. The opaque token
//	@Description	is returned once and only its fingerprint is stored.
//	@Tags			Invites
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		inviteMintRequest	true	"Invite parameters"
//	@Success		201		{object}	inviteMintResponse	"Invite token (shown once)"
//	@Failure		400		{object}	httpx.APIError		"Bad role or expiry"
//	@Failure		403		{object}	httpx.APIError		"Caller has no office membership"
//	@Router			/v1/invites [post]
func (h *InviteHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	var req inviteMintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	expiresAt := time.Now().Add(DefaultInviteTTL)
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	token, err := h.InviteService.MintInvite(ctx, userID, domain.OfficeRole(req.OfficeRole), expiresAt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrForbidden):
			httpx.ErrForbidden.WithDescription("caller has no office membership").WriteError(w)
		default:
			log.Error("invite mint failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, inviteMintResponse{Token: token, ExpiresAt: expiresAt})
}

// HandleRedeem handles POST /v1/invites/redeem
//
//	@Summary		Redeem a staff invite
//	@Description	Consumes the invite and creates an active staff user with the matching
//	@Description	office membership.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		inviteRedeemRequest	true	"Invite token and new account"
//	@Success		201		{object}	map[string]string	"Created user id"
//	@Failure		400		{object}	httpx.APIError		"Invalid account details"
//	@Failure		404		{object}	httpx.APIError		"Invite unknown, used, or expired"
//	@Failure		409		{object}	httpx.APIError		"Email already registered"
//	@Router			/v1/invites/redeem [post]
func (h *InviteHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req inviteRedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.InviteService.RedeemInvite(ctx, req.Token, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.ErrNotFound.WithDescription("invite is unknown, used, or expired").WriteError(w)
		case errors.Is(err, service.ErrEmailTaken):
			httpx.ErrConflict.WithDescription("email is already registered").WriteError(w)
		case errors.Is(err, service.ErrInvalidRegister):
			httpx.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("invite redemption failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
	})
}
