package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const qrImageSize = 200 // px, square

var (
	ErrMFAInvalidCode    = errors.New("invalid_mfa_code")
	ErrMFANotEnrolled    = errors.New("mfa_not_enrolled")
	ErrMFANotEnabled     = errors.New("mfa_not_enabled")
	ErrMFAAlreadyEnabled = errors.New("mfa_already_enabled")
)

// MFAService manages the TOTP second factor. Verification is stateless:
// any code valid within the current step or one adjacent step is accepted,
// including a replay of a just-used code.
type MFAService struct {
	Store  store.Store
	Issuer string // issuer label shown in authenticator apps
}

// BeginEnrollment generates a fresh TOTP secret for the user and persists
// it without enabling MFA. Restarting enrollment overwrites the pending
// secret. The secret and QR image are returned exactly once.
func (s *MFAService) BeginEnrollment(ctx context.Context, userID string) (domain.MFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("get user: %w", err)
	}
	if user.MFAActive() {
		return domain.MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("generate TOTP key: %w", err)
	}

	secret := key.Secret()
	if err := s.Store.Users().SetMFASecret(ctx, userID, &secret); err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("store MFA secret: %w", err)
	}

	qr, err := renderQRCode(key)
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("render QR code: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:    secret,
		URI:       key.URL(),
		QRCodePNG: qr,
	}, nil
}

// ConfirmEnrollment proves possession of the pending secret and enables
// MFA. A wrong code leaves the pending secret untouched so the user can
// retry.
func (s *MFAService) ConfirmEnrollment(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user.MFAActive() {
		return ErrMFAAlreadyEnabled
	}
	if user.MFASecret == nil || *user.MFASecret == "" {
		return ErrMFANotEnrolled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return ErrMFAInvalidCode
	}

	if err := s.Store.Users().EnableMFA(ctx, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("enable MFA: %w", err)
	}
	return nil
}

// VerifyLogin checks a TOTP code for an MFA-enabled account.
func (s *MFAService) VerifyLogin(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !user.MFAActive() {
		return ErrMFANotEnabled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return ErrMFAInvalidCode
	}
	return nil
}

// Disable turns MFA off. It demands a currently valid code so a stolen but
// unexpired access token alone cannot strip the second factor.
func (s *MFAService) Disable(ctx context.Context, userID, code string) error {
	if err := s.VerifyLogin(ctx, userID, code); err != nil {
		return err
	}

	if err := s.Store.Users().DisableMFA(ctx, userID); err != nil {
		return fmt.Errorf("disable MFA: %w", err)
	}
	return nil
}

func renderQRCode(key *otp.Key) (string, error) {
	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
