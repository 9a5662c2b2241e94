package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/authz"
	"github.com/cmlabs-hris/payroll-backend-go/internal/testutil"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "6f1c2b7a-1d2e-4c3b-9a8f-0e1d2c3b4a51"
	testUserID    = "9b8a7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c62"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func chain(t *testing.T, mode authz.Mode, resource, action string) http.Handler {
	t.Helper()
	authorizer, err := authz.NewAuthorizer(mode)
	require.NoError(t, err)
	perms := NewPermissions(authorizer)
	return jwtauth.Verifier(testutil.JWTService().JWTAuth())(
		AuthRequired(perms.Require(resource, action)(okHandler)),
	)
}

func do(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	h := chain(t, authz.ModeEnforce, authz.ResourceEmployee, authz.ActionRead)

	assert.Equal(t, http.StatusUnauthorized, do(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, "garbage").Code)

	refresh, _, err := testutil.JWTService().GenerateRefreshToken(testUserID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(h, refresh).Code, "refresh tokens are not access tokens")

	assert.Equal(t, http.StatusNoContent, do(h, testutil.AccessToken(t, testUserID, testCompanyID, "manager")).Code)
}

func TestRequirePermission_Enforce(t *testing.T) {
	tests := []struct {
		role     string
		resource string
		action   string
		want     int
	}{
		{"employee", authz.ResourceAttendance, authz.ActionRead, http.StatusNoContent},
		{"employee", authz.ResourcePayroll, authz.ActionRead, http.StatusForbidden},
		{"manager", authz.ResourcePayroll, authz.ActionRead, http.StatusNoContent},
		{"manager", authz.ResourcePayroll, authz.ActionFinalize, http.StatusForbidden},
		{"owner", authz.ResourcePayroll, authz.ActionFinalize, http.StatusNoContent},
		{"owner", authz.ResourceEquipment, authz.ActionWrite, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.role+"_"+tt.resource+"_"+tt.action, func(t *testing.T) {
			h := chain(t, authz.ModeEnforce, tt.resource, tt.action)
			rec := do(h, testutil.AccessToken(t, testUserID, testCompanyID, tt.role))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequirePermission_ShadowAndDisabled(t *testing.T) {
	for _, mode := range []authz.Mode{authz.ModeShadow, authz.ModeDisabled} {
		h := chain(t, mode, authz.ResourcePayroll, authz.ActionFinalize)
		rec := do(h, testutil.AccessToken(t, testUserID, testCompanyID, "employee"))
		assert.Equal(t, http.StatusNoContent, rec.Code, string(mode))
	}
}
