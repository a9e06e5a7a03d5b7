package backoffice_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backoffice/internal/backoffice/app"
)

/*
 * End-to-end tests for the identity service. Each test composes the full
 * application from environment configuration, backed by a file database in a
 * temp dir, and drives it over real HTTP.
 *
 * Rate limiters are per service instance, so every test gets fresh buckets.
 * Credential endpoints carry a strict limit of 5 requests per minute; keep
 * each test under that per route or it will trip 429s.
 */

const (
	bootstrapToken = "e2e-bootstrap-token"
	adminEmail     = "root@ledgerline.test"
	adminPassword  = "RootAdmin123!"
)

type testService struct {
	baseURL string
	client  *http.Client
}

// setupService boots the whole application and serves it on a loopback port.
func setupService(t *testing.T) *testService {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("BACKOFFICE_ACCESS_SECRET", "e2e-access-secret")
	t.Setenv("BACKOFFICE_REFRESH_SECRET", "e2e-refresh-secret")
	t.Setenv("BOOTSTRAP_TOKEN", bootstrapToken)
	t.Setenv("BACKOFFICE_DATABASE_FILE", filepath.Join(dir, "backoffice.db"))
	t.Setenv("BACKOFFICE_PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	application, err := app.New(cfg)
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		server.Close()
		_ = application.Shutdown()
	})

	return &testService{baseURL: server.URL, client: server.Client()}
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// do issues one request against the service and returns the response with its
// body already drained.
func (s *testService) do(t *testing.T, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// bootstrapAdmin claims the empty store for the first system administrator.
func (s *testService) bootstrapAdmin(t *testing.T) {
	t.Helper()
	resp, _ := s.do(t, http.MethodPost, "/v1/bootstrap", "", map[string]string{
		"token":    bootstrapToken,
		"email":    adminEmail,
		"password": adminPassword,
		"name":     "Root Admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// register self-registers a client account.
func (s *testService) register(t *testing.T, email, password string) {
	t.Helper()
	resp, _ := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     "E2E User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// login authenticates and requires a full token pair back.
func (s *testService) login(t *testing.T, email, password string) tokenPair {
	t.Helper()
	resp, raw := s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login response: %s", raw)

	pair := decode[tokenPair](t, raw)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Positive(t, pair.ExpiresIn)
	return pair
}
