package company

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "4b7f5a52-0d6c-4f8e-9a0e-6b3c1c8c2f10"

func newCompanyRepo() *testutil.CompanyRepo {
	return testutil.NewCompanyRepo(company.Company{
		ID: testCompanyID, Name: "CMLabs", Username: "cmlabs", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
}

func TestCompanyService_GetMyCompany(t *testing.T) {
	svc := NewCompanyService(newCompanyRepo())
	ctx := testutil.AuthContext(t, "user-1", testCompanyID, "owner")

	resp, err := svc.GetMyCompany(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CMLabs", resp.Name)
	assert.Equal(t, "cmlabs", resp.Username)
}

func TestCompanyService_GetMyCompany_NotFound(t *testing.T) {
	svc := NewCompanyService(newCompanyRepo())
	ctx := testutil.AuthContext(t, "user-1", "00000000-0000-0000-0000-000000000000", "owner")

	_, err := svc.GetMyCompany(ctx)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestCompanyService_GetMyCompany_NoClaims(t *testing.T) {
	svc := NewCompanyService(newCompanyRepo())

	_, err := svc.GetMyCompany(context.Background())
	assert.Error(t, err)
}

func TestCompanyService_UpdateMyCompany(t *testing.T) {
	repo := newCompanyRepo()
	svc := NewCompanyService(repo)
	ctx := testutil.AuthContext(t, "user-1", testCompanyID, "owner")

	name := "CMLabs Indonesia"
	address := "Jl. Sudirman 1, Jakarta"
	resp, err := svc.UpdateMyCompany(ctx, company.UpdateCompanyRequest{Name: &name, Address: &address})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	require.NotNil(t, resp.Address)
	assert.Equal(t, address, *resp.Address)
	assert.Equal(t, name, repo.Companies[testCompanyID].Name)
}

func TestCompanyService_UpdateMyCompany_Validation(t *testing.T) {
	svc := NewCompanyService(newCompanyRepo())
	ctx := testutil.AuthContext(t, "user-1", testCompanyID, "owner")

	t.Run("no fields", func(t *testing.T) {
		_, err := svc.UpdateMyCompany(ctx, company.UpdateCompanyRequest{})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("blank name", func(t *testing.T) {
		blank := "   "
		_, err := svc.UpdateMyCompany(ctx, company.UpdateCompanyRequest{Name: &blank})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "company_name", verrs[0].Field)
	})
}

func TestCompanyService_UpdateMyCompany_NoClaims(t *testing.T) {
	svc := NewCompanyService(newCompanyRepo())
	name := "X"

	_, err := svc.UpdateMyCompany(context.Background(), company.UpdateCompanyRequest{Name: &name})
	assert.ErrorIs(t, err, jwt.ErrMissingClaims)
}
