package attendance

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "6f1c2b7a-1d2e-4c3b-9a8f-0e1d2c3b4a51"
	testManagerID  = "9b8a7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c62"
	testEmployeeID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c01"
)

// memoryAttendanceRepo keys entries by employee and date like the unique index does.
type memoryAttendanceRepo struct {
	entries map[string]attendance.Attendance
}

func key(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format(validator.DateLayout)
}

func (m *memoryAttendanceRepo) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if existing, ok := m.entries[key(a.EmployeeID, a.Date)]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		a.ID = uuid.NewString()
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()
	m.entries[key(a.EmployeeID, a.Date)] = a
	return a, nil
}

func (m *memoryAttendanceRepo) GetByID(_ context.Context, companyID, id string) (attendance.Attendance, error) {
	for _, a := range m.entries {
		if a.ID == id && a.CompanyID == companyID {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memoryAttendanceRepo) ListByEmployeeBetween(_ context.Context, companyID, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range m.entries {
		if a.CompanyID == companyID && a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memoryAttendanceRepo) Delete(_ context.Context, companyID, id string) error {
	for k, a := range m.entries {
		if a.ID == id && a.CompanyID == companyID {
			delete(m.entries, k)
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func newService(t *testing.T) (attendance.AttendanceService, *memoryAttendanceRepo, context.Context) {
	t.Helper()
	repo := &memoryAttendanceRepo{entries: make(map[string]attendance.Attendance)}
	employees := testutil.NewEmployeeRepo(employee.Employee{
		ID:        testEmployeeID,
		CompanyID: testCompanyID,
		FullName:  "Alice Hartono",
		Status:    employee.EmploymentStatusActive,
	})
	return NewAttendanceService(repo, employees), repo, testutil.AuthContext(t, testManagerID, testCompanyID, "manager")
}

func record(date, hours, overtime string) attendance.RecordAttendanceRequest {
	return attendance.RecordAttendanceRequest{
		EmployeeID:    testEmployeeID,
		Date:          date,
		Hours:         decimal.RequireFromString(hours),
		OvertimeHours: decimal.RequireFromString(overtime),
	}
}

func TestAttendanceService_RecordUpserts(t *testing.T) {
	svc, repo, ctx := newService(t)

	first, err := svc.RecordAttendance(ctx, record("2025-03-07", "8", "0"))
	require.NoError(t, err)
	assert.Equal(t, "Friday", first.Weekday)

	second, err := svc.RecordAttendance(ctx, record("2025-03-07", "6", "2"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.entries, 1)
	assert.True(t, decimal.NewFromInt(2).Equal(second.OvertimeHours))
}

func TestAttendanceService_RecordValidation(t *testing.T) {
	svc, _, ctx := newService(t)

	tests := []struct {
		name  string
		req   attendance.RecordAttendanceRequest
		field string
	}{
		{"negative hours", record("2025-03-07", "-1", "0"), "hours"},
		{"hours over 24", record("2025-03-07", "25", "0"), "hours"},
		{"sum over 24", record("2025-03-07", "20", "5"), "overtime_hours"},
		{"bad date", record("07-03-2025", "8", "0"), "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordAttendance(ctx, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}

	_, err := svc.RecordAttendance(ctx, record("2025-03-07", "24", "0"))
	assert.NoError(t, err)
}

func TestAttendanceService_RecordUnknownEmployee(t *testing.T) {
	svc, _, ctx := newService(t)

	req := record("2025-03-07", "8", "0")
	req.EmployeeID = uuid.NewString()
	_, err := svc.RecordAttendance(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_ListByPeriod(t *testing.T) {
	svc, _, ctx := newService(t)

	for _, date := range []string{"2025-02-28", "2025-03-02", "2025-03-01", "2025-04-01"} {
		_, err := svc.RecordAttendance(ctx, record(date, "8", "0"))
		require.NoError(t, err)
	}

	list, err := svc.ListAttendance(ctx, attendance.ListAttendanceRequest{EmployeeID: testEmployeeID, Month: 3, Year: 2025})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-01", list[0].Date)
	assert.Equal(t, "2025-03-02", list[1].Date)

	_, err = svc.ListAttendance(ctx, attendance.ListAttendanceRequest{EmployeeID: testEmployeeID, Month: 13, Year: 2025})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestAttendanceService_Delete(t *testing.T) {
	svc, repo, ctx := newService(t)

	saved, err := svc.RecordAttendance(ctx, record("2025-03-07", "8", "0"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAttendance(ctx, saved.ID))
	assert.Empty(t, repo.entries)
	assert.ErrorIs(t, svc.DeleteAttendance(ctx, saved.ID), attendance.ErrAttendanceNotFound)
	assert.ErrorIs(t, svc.DeleteAttendance(ctx, "nope"), attendance.ErrAttendanceNotFound)
}
