package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_CreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedCompany(t, db)
	repo := postgresql.NewEmployeeRepository(db)

	alice := seedEmployee(t, db, c.ID, "EMP-001", "Alice Hartono")
	seedEmployee(t, db, c.ID, "EMP-002", "Bima Saputra")

	_, err := repo.Create(ctx, employee.Employee{
		CompanyID:    c.ID,
		EmployeeCode: "EMP-001",
		FullName:     "Duplicate",
		HireDate:     alice.HireDate,
		Status:       employee.EmploymentStatusActive,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	exists, err := repo.ExistsByCode(ctx, c.ID, "EMP-001", &alice.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	position := "Engineer"
	require.NoError(t, repo.Update(ctx, c.ID, alice.ID, employee.UpdateEmployeeRequest{Position: &position}))

	taken := "EMP-002"
	err = repo.Update(ctx, c.ID, alice.ID, employee.UpdateEmployeeRequest{EmployeeCode: &taken})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	require.NoError(t, repo.UpdateCompensation(ctx, c.ID, alice.ID, compensation.Compensation{
		Base:      decimal.NewFromInt(3000000),
		Food:      decimal.NewFromInt(300000),
		Housing:   decimal.NewFromInt(400000),
		Transport: decimal.NewFromInt(50000),
	}))

	got, err := repo.GetByID(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Position)
	assert.Equal(t, "Engineer", *got.Position)
	assert.True(t, decimal.NewFromInt(3750000).Equal(got.Compensation.Total()))
}

func TestEmployeeRepository_ListAndSoftDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedCompany(t, db)
	other := seedCompany(t, db)
	repo := postgresql.NewEmployeeRepository(db)

	carol := seedEmployee(t, db, c.ID, "EMP-003", "Carol")
	seedEmployee(t, db, c.ID, "EMP-001", "Alice")
	seedEmployee(t, db, c.ID, "EMP-002", "Bob")
	seedEmployee(t, db, other.ID, "EMP-001", "Other Tenant")

	filter := employee.EmployeeFilter{Limit: 2}
	require.NoError(t, filter.Validate())
	list, total, err := repo.List(ctx, c.ID, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].FullName)
	assert.Equal(t, "Bob", list[1].FullName)

	search := "car"
	filter = employee.EmployeeFilter{Search: &search}
	require.NoError(t, filter.Validate())
	list, total, err = repo.List(ctx, c.ID, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, carol.ID, list[0].ID)

	require.NoError(t, repo.SoftDelete(ctx, c.ID, carol.ID))
	_, err = repo.GetByID(ctx, c.ID, carol.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, c.ID, carol.ID), employee.ErrEmployeeNotFound)

	active, err := repo.GetActiveByCompanyID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, err = repo.GetByID(ctx, other.ID, carol.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
