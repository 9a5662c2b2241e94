package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
}

func NewCompanyService(companyRepository company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{CompanyRepository: companyRepository}
}

// GetMyCompany implements company.CompanyService.
func (c *CompanyServiceImpl) GetMyCompany(ctx context.Context) (company.CompanyResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	companyData, err := c.CompanyRepository.GetByID(ctx, claims.CompanyID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(companyData), nil
}

// UpdateMyCompany implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateMyCompany(ctx context.Context, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	updated, err := c.CompanyRepository.Update(ctx, claims.CompanyID, req)
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to update company: %w", err)
	}
	slog.InfoContext(ctx, "company updated", "company_id", updated.ID, "user_id", claims.UserID)

	return company.NewCompanyResponse(updated), nil
}
