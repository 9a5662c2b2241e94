package company

import (
	"context"
)

// CompanyService manages the company of the authenticated user.
type CompanyService interface {
	GetMyCompany(ctx context.Context) (CompanyResponse, error)
	UpdateMyCompany(ctx context.Context, req UpdateCompanyRequest) (CompanyResponse, error)
}
