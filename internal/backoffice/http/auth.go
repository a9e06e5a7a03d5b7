package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/service"
	"github.com/ledgerline/backoffice/pkg/httpx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

// AuthHandler serves the credential and session lifecycle endpoints.
type AuthHandler struct {
	AuthService         *service.AuthService
	TokenService        *service.TokenService
	RegistrationService *service.RegistrationService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type mfaLoginRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func originFromRequest(r *http.Request) domain.Origin {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return domain.Origin{IP: ip, UserAgent: r.UserAgent()}
}

func writeTokenPair(w http.ResponseWriter, pair *domain.TokenPair) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials and returns an access/refresh token pair, or a
//	@Description	challenge token when the account has a second factor enabled.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	tokenResponse	"Token pair"
//	@Failure		401		{object}	httpx.APIError	"Invalid credentials or locked account"
//	@Failure		409		{object}	map[string]any	"MFA required; body carries challenge_token"
//	@Router			/v1/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Email, req.Password, originFromRequest(r))
	if err != nil {
		var lockedErr *service.AccountLockedError
		var mfaErr *service.MFARequiredError

		switch {
		case errors.As(err, &mfaErr):
			httpx.NoCache(w)
			httpx.WriteJSON(w, http.StatusConflict, domain.MFAChallengeResponse{
				MFARequired:    true,
				ChallengeToken: mfaErr.ChallengeToken,
			})
		case errors.As(err, &lockedErr):
			minutes := int(lockedErr.RetryAfter.Minutes()) + 1
			httpx.ErrAccountLocked.
				WithDescription("account is locked, retry in " + strconv.Itoa(minutes) + " minutes").
				WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	writeTokenPair(w, pair)
}

// HandleMFA handles POST /v1/auth/mfa
//
//	@Summary		Complete a login suspended on its second factor
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfaLoginRequest	true	"Challenge token and TOTP code"
//	@Success		200		{object}	tokenResponse	"Token pair"
//	@Failure		401		{object}	httpx.APIError	"Invalid challenge or code"
//	@Failure		429		{object}	httpx.APIError	"Challenge attempt cap exhausted"
//	@Router			/v1/auth/mfa [post]
func (h *AuthHandler) HandleMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req mfaLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChallengeToken == "" || req.Code == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.CompleteMFALogin(ctx, req.ChallengeToken, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFAInvalidCode):
			httpx.ErrMFAInvalidCode.WriteError(w)
		case errors.Is(err, service.ErrTooManyAttempts):
			httpx.ErrMFAInvalidCode.
				WithDescription("too many failed attempts, log in again").
				WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.ErrInvalidCredentials.
				WithDescription("challenge is invalid or expired").
				WriteError(w)
		default:
			log.Error("mfa login failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	writeTokenPair(w, pair)
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Rotate a refresh token
//	@Description	Exchanges a live refresh token for a new pair. The presented token is
//	@Description	invalidated; of two concurrent exchanges exactly one succeeds.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refreshRequest	true	"Refresh token"
//	@Success		200		{object}	tokenResponse	"Rotated token pair"
//	@Failure		401		{object}	httpx.APIError	"Invalid, expired, or revoked refresh token"
//	@Router			/v1/auth/refresh [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.ErrInvalidRefresh.WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	writeTokenPair(w, pair)
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Terminate the current session
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Session terminated (idempotent)"
//	@Failure		401	{object}	httpx.APIError	"Invalid or missing access token"
//	@Router			/v1/auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	if err := h.TokenService.Logout(ctx, userID, raw); err != nil {
		log.Error("logout failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutAll handles POST /v1/auth/logout-all
//
//	@Summary		Terminate every session of the current user
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"All sessions terminated"
//	@Failure		401	{object}	httpx.APIError	"Invalid or missing access token"
//	@Router			/v1/auth/logout-all [post]
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.TokenService.LogoutAll(ctx, userID); err != nil {
		log.Error("logout-all failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Client self-registration
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"New account"
//	@Success		201		{object}	map[string]string	"Created user id"
//	@Failure		400		{object}	httpx.APIError	"Invalid email or password"
//	@Failure		409		{object}	httpx.APIError	"Email already registered"
//	@Router			/v1/auth/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.RegistrationService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.ErrConflict.WithDescription("email is already registered").WriteError(w)
		case errors.Is(err, service.ErrInvalidRegister):
			httpx.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("registration failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}
