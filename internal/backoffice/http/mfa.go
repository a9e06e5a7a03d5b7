package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledgerline/backoffice/internal/backoffice/service"
	"github.com/ledgerline/backoffice/pkg/httpx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

// MFAHandler serves TOTP enrollment and teardown.
type MFAHandler struct {
	MFAService *service.MFAService
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

type mfaEnrollResponse struct {
	Secret    string `json:"secret"`
	URI       string `json:"uri"`
	QRCodePNG string `json:"qr_code_png"`
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Begin TOTP enrollment
//	@Description	Generates a pending TOTP secret and returns it with a QR code. MFA is
//	@Description	not enabled until the secret is confirmed with a valid code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	mfaEnrollResponse	"Secret, otpauth URI and QR code (shown once)"
//	@Failure		400	{object}	httpx.APIError		"MFA already enabled"
//	@Failure		401	{object}	httpx.APIError		"Invalid or missing access token"
//	@Router			/v1/mfa/totp/enroll [post]
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	enrollment, err := h.MFAService.BeginEnrollment(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrMFAAlreadyEnabled) {
			httpx.ErrMFAAlreadyEnabled.WriteError(w)
			return
		}
		log.Error("mfa enrollment failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfaEnrollResponse{
		Secret:    enrollment.Secret,
		URI:       enrollment.URI,
		QRCodePNG: enrollment.QRCodePNG,
	})
}

// HandleConfirm handles POST /v1/mfa/totp/confirm
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Proves possession of the pending secret with a current code and enables MFA.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Success		204	"MFA enabled"
//	@Failure		400	{object}	httpx.APIError	"Not enrolled or already enabled"
//	@Failure		401	{object}	httpx.APIError	"Invalid code"
//	@Router			/v1/mfa/totp/confirm [post]
func (h *MFAHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	var req mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.MFAService.ConfirmEnrollment(ctx, userID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrMFAInvalidCode):
			httpx.ErrMFAInvalidCode.WriteError(w)
		case errors.Is(err, service.ErrMFAAlreadyEnabled):
			httpx.ErrMFAAlreadyEnabled.WriteError(w)
		case errors.Is(err, service.ErrMFANotEnrolled):
			httpx.ErrMFANotEnabled.
				WithDescription("no pending enrollment, call enroll first").
				WriteError(w)
		default:
			log.Error("mfa confirmation failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable handles POST /v1/mfa/totp/disable
//
//	@Summary		Disable MFA
//	@Description	Requires a currently valid TOTP code, then clears the secret and flag.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Success		204	"MFA disabled"
//	@Failure		400	{object}	httpx.APIError	"MFA not enabled"
//	@Failure		401	{object}	httpx.APIError	"Invalid code"
//	@Router			/v1/mfa/totp/disable [post]
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	var req mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.MFAService.Disable(ctx, userID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrMFAInvalidCode):
			httpx.ErrMFAInvalidCode.WriteError(w)
		case errors.Is(err, service.ErrMFANotEnabled):
			httpx.ErrMFANotEnabled.WriteError(w)
		default:
			log.Error("mfa disable failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
