package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// EmployeeRepo is an in-memory employee.EmployeeRepository.
type EmployeeRepo struct {
	mu        sync.Mutex
	Employees map[string]employee.Employee
	Locks     int // GetByIDForUpdate calls
}

func NewEmployeeRepo(emps ...employee.Employee) *EmployeeRepo {
	r := &EmployeeRepo{Employees: make(map[string]employee.Employee)}
	for _, e := range emps {
		r.Employees[e.ID] = e
	}
	return r
}

func (r *EmployeeRepo) get(companyID, id string) (employee.Employee, error) {
	e, ok := r.Employees[id]
	if !ok || e.CompanyID != companyID || e.DeletedAt != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepo) GetByID(_ context.Context, companyID, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(companyID, id)
}

func (r *EmployeeRepo) GetByIDForUpdate(_ context.Context, companyID, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Locks++
	return r.get(companyID, id)
}

func (r *EmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Employees {
		if existing.CompanyID == e.CompanyID && existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.Employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepo) ExistsByCode(_ context.Context, companyID, code string, excludeID *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Employees {
		if e.CompanyID != companyID || e.EmployeeCode != code {
			continue
		}
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *EmployeeRepo) Update(_ context.Context, companyID, id string, req employee.UpdateEmployeeRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.get(companyID, id)
	if err != nil {
		return err
	}
	if req.EmployeeCode != nil {
		e.EmployeeCode = *req.EmployeeCode
	}
	if req.FullName != nil {
		e.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		e.Email = req.Email
	}
	if req.Position != nil {
		e.Position = req.Position
	}
	if req.HireDate != nil {
		if d, ok := validator.IsValidDate(*req.HireDate); ok {
			e.HireDate = d
		}
	}
	if req.Status != nil {
		e.Status = employee.EmploymentStatus(*req.Status)
	}
	if req.BaseSalary != nil {
		e.Compensation.Base = *req.BaseSalary
	}
	if req.FoodAllowance != nil {
		e.Compensation.Food = *req.FoodAllowance
	}
	if req.HousingAllowance != nil {
		e.Compensation.Housing = *req.HousingAllowance
	}
	if req.TransportAllowance != nil {
		e.Compensation.Transport = *req.TransportAllowance
	}
	e.UpdatedAt = time.Now()
	r.Employees[id] = e
	return nil
}

func (r *EmployeeRepo) UpdateCompensation(_ context.Context, companyID, id string, comp compensation.Compensation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.get(companyID, id)
	if err != nil {
		return err
	}
	e.Compensation = comp
	r.Employees[id] = e
	return nil
}

func (r *EmployeeRepo) SoftDelete(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.get(companyID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	e.DeletedAt = &now
	e.Status = employee.EmploymentStatusInactive
	r.Employees[id] = e
	return nil
}

func (r *EmployeeRepo) List(_ context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []employee.Employee
	for _, e := range r.Employees {
		if e.CompanyID != companyID || e.DeletedAt != nil {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		if filter.Search != nil && *filter.Search != "" {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(e.FullName), q) && !strings.Contains(strings.ToLower(e.EmployeeCode), q) {
				continue
			}
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].FullName < matched[j].FullName
		if filter.SortBy == "employee_code" {
			less = matched[i].EmployeeCode < matched[j].EmployeeCode
		}
		if filter.SortOrder == "desc" {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	limit, page := filter.Limit, filter.Page
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := min(start+limit, len(matched))
	return matched[start:end], total, nil
}

func (r *EmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.Employees {
		if e.CompanyID == companyID && e.IsActive() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

// CompanyRepo is an in-memory company.CompanyRepository.
type CompanyRepo struct {
	mu        sync.Mutex
	Companies map[string]company.Company
}

func NewCompanyRepo(companies ...company.Company) *CompanyRepo {
	r := &CompanyRepo{Companies: make(map[string]company.Company)}
	for _, c := range companies {
		r.Companies[c.ID] = c
	}
	return r
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r *CompanyRepo) Create(_ context.Context, c company.Company) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Companies {
		if existing.Username == c.Username {
			return company.Company{}, company.ErrCompanyUsernameExists
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.Companies[c.ID] = c
	return c, nil
}

func (r *CompanyRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Companies {
		if c.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *CompanyRepo) Update(_ context.Context, id string, req company.UpdateCompanyRequest) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	c.UpdatedAt = time.Now()
	r.Companies[id] = c
	return c, nil
}
