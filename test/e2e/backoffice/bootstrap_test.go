package backoffice_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapClaimsFirstAdmin(t *testing.T) {
	svc := setupService(t)

	// 1. A bad shared token is refused while the store is still empty.
	resp, _ := svc.do(t, http.MethodPost, "/v1/bootstrap", "", map[string]string{
		"token":    "not-the-token",
		"email":    adminEmail,
		"password": adminPassword,
		"name":     "Root Admin",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// 2. The correct token claims the store.
	svc.bootstrapAdmin(t)

	// 3. A second claim is refused even with the correct token.
	resp, _ = svc.do(t, http.MethodPost, "/v1/bootstrap", "", map[string]string{
		"token":    bootstrapToken,
		"email":    "second@ledgerline.test",
		"password": adminPassword,
		"name":     "Pretender",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// 4. The bootstrapped admin can log in and holds the wildcard tenant grant.
	pair := svc.login(t, adminEmail, adminPassword)

	resp, raw := svc.do(t, http.MethodGet, "/v1/tenants/companies", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	companies := decode[struct {
		All        bool     `json:"all"`
		CompanyIDs []string `json:"company_ids"`
	}](t, raw)
	require.True(t, companies.All)
}
