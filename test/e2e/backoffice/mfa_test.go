package backoffice_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMFAEnrollmentAndSecondFactorLogin(t *testing.T) {
	svc := setupService(t)
	svc.register(t, "erin@example.com", "correct horse battery")
	pair := svc.login(t, "erin@example.com", "correct horse battery")

	// 1. Enroll: the secret and QR code are delivered exactly once.
	resp, raw := svc.do(t, http.MethodPost, "/v1/mfa/totp/enroll", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	enrollment := decode[struct {
		Secret    string `json:"secret"`
		URI       string `json:"uri"`
		QRCodePNG string `json:"qr_code_png"`
	}](t, raw)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URI, "otpauth://totp/")
	// Base64 of the PNG magic bytes.
	require.True(t, strings.HasPrefix(enrollment.QRCodePNG, "iVBOR"))

	// 2. Confirmation demands proof of possession.
	resp, _ = svc.do(t, http.MethodPost, "/v1/mfa/totp/confirm", pair.AccessToken, map[string]string{
		"code": "000000",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	resp, _ = svc.do(t, http.MethodPost, "/v1/mfa/totp/confirm", pair.AccessToken, map[string]string{
		"code": code,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// 3. Login now suspends on the second factor.
	resp, raw = svc.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "erin@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	challenge := decode[struct {
		MFARequired    bool   `json:"mfa_required"`
		ChallengeToken string `json:"challenge_token"`
	}](t, raw)
	require.True(t, challenge.MFARequired)
	require.NotEmpty(t, challenge.ChallengeToken)

	resp, _ = svc.do(t, http.MethodPost, "/v1/auth/mfa", "", map[string]string{
		"challenge_token": challenge.ChallengeToken,
		"code":            "000000",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	resp, raw = svc.do(t, http.MethodPost, "/v1/auth/mfa", "", map[string]string{
		"challenge_token": challenge.ChallengeToken,
		"code":            code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mfaPair := decode[tokenPair](t, raw)
	require.NotEmpty(t, mfaPair.AccessToken)

	// The challenge is single use.
	resp, _ = svc.do(t, http.MethodPost, "/v1/auth/mfa", "", map[string]string{
		"challenge_token": challenge.ChallengeToken,
		"code":            code,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// 4. Disabling with a valid code restores single-factor login.
	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	resp, _ = svc.do(t, http.MethodPost, "/v1/mfa/totp/disable", mfaPair.AccessToken, map[string]string{
		"code": code,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	svc.login(t, "erin@example.com", "correct horse battery")
}
