package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/payroll-backend-go/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	sharedOnce sync.Once
	sharedDSN  string
	sharedErr  error
)

// requireIntegration skips unless INTEGRATION_TEST=1, since the suite needs Docker.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("set INTEGRATION_TEST=1 to run repository integration tests")
	}
}

// startPostgres runs one container for the package and applies the migrations once.
func startPostgres() (string, error) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("payroll_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("connection string: %w", err)
	}

	m, err := database.NewMigrator(migrations.FS, dsn)
	if err != nil {
		return "", err
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		return "", err
	}
	return dsn, nil
}

// newTestDB connects to the shared container and truncates every table afterwards.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	requireIntegration(t)

	sharedOnce.Do(func() {
		sharedDSN, sharedErr = startPostgres()
	})
	require.NoError(t, sharedErr)

	db, err := database.NewPostgreSQLDB(context.Background(), sharedDSN, database.PoolOptions{MaxConns: 5, MinConns: 1})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, err := db.Exec(context.Background(),
			"TRUNCATE TABLE assignments, equipment, payroll_records, payroll_settings, attendances, salary_increments, employees, refresh_tokens, users, companies CASCADE")
		require.NoError(t, err)
		db.Close()
	})
	return db
}

// seedCompany inserts a company with a unique username.
func seedCompany(t *testing.T, db *database.DB) company.Company {
	t.Helper()
	c, err := postgresql.NewCompanyRepository(db).Create(context.Background(), company.Company{
		Name:     "CMLabs",
		Username: "cmlabs-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)
	return c
}

func seedEmployee(t *testing.T, db *database.DB, companyID, code, name string) employee.Employee {
	t.Helper()
	e, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		CompanyID:    companyID,
		EmployeeCode: code,
		FullName:     name,
		HireDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:       employee.EmploymentStatusActive,
	})
	require.NoError(t, err)
	return e
}
