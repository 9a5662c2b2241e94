package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "6f1c2b7a-1d2e-4c3b-9a8f-0e1d2c3b4a51"
	testOwnerID   = "9b8a7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c62"
	aliceID       = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c01"
	bobID         = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c02"
	carolID       = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c03"
)

var june2025 = payroll.NewPeriod(2025, 6)

type fixture struct {
	ctx      context.Context
	svc      *PayrollServiceImpl
	repo     *fakePayrollRepo
	emps     *testutil.EmployeeRepo
	att      *fakeAttendanceRepo
	cache    *testutil.MemoryCache
	renderer *fakeRenderer
	files    *fakeFileService
	tx       *testutil.Transactor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	position := "Engineer"
	alice := employee.Employee{
		ID:           aliceID,
		CompanyID:    testCompanyID,
		EmployeeCode: "EMP-001",
		FullName:     "Alice Hartono",
		Position:     &position,
		Status:       employee.EmploymentStatusActive,
		Compensation: compensation.Compensation{
			Base:      dec("3000000"),
			Food:      dec("300000"),
			Housing:   dec("400000"),
			Transport: dec("50000"),
		},
	}
	bob := employee.Employee{
		ID:           bobID,
		CompanyID:    testCompanyID,
		EmployeeCode: "EMP-002",
		FullName:     "Bob Santoso",
		Status:       employee.EmploymentStatusActive,
	}
	carol := employee.Employee{
		ID:           carolID,
		CompanyID:    testCompanyID,
		EmployeeCode: "EMP-003",
		FullName:     "Carol Wijaya",
		Status:       employee.EmploymentStatusResigned,
		Compensation: compensation.Compensation{Base: dec("4000000")},
	}

	f := &fixture{
		ctx:      testutil.AuthContext(t, testOwnerID, testCompanyID, "owner"),
		repo:     newFakePayrollRepo(),
		emps:     testutil.NewEmployeeRepo(alice, bob, carol),
		att:      &fakeAttendanceRepo{},
		cache:    testutil.NewMemoryCache(),
		renderer: &fakeRenderer{},
		files:    &fakeFileService{},
		tx:       &testutil.Transactor{},
	}
	f.att.fillMonth(testCompanyID, aliceID, june2025, 10)

	address := "Jl. Sudirman 1, Jakarta"
	companies := testutil.NewCompanyRepo(company.Company{
		ID: testCompanyID, Name: "CMLabs", Username: "cmlabs", Address: &address,
	})

	f.svc = NewPayrollService(f.tx, f.repo, f.emps, f.att, companies,
		NewSummaryCache(f.cache, time.Minute), f.renderer, f.files)
	return f
}

func (f *fixture) generate(t *testing.T) payroll.PayrollRecordResponse {
	t.Helper()
	resp, err := f.svc.GeneratePayroll(f.ctx, payroll.GeneratePayrollRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	return resp.Records[0]
}

func TestGeneratePayroll(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GeneratePayroll(f.ctx, payroll.GeneratePayrollRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.GeneratedCount)
	assert.Equal(t, 1, resp.SkippedCount)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, bobID, resp.Skipped[0].EmployeeID)
	assert.Equal(t, payroll.ErrEmployeeHasNoBaseSalary.Error(), resp.Skipped[0].Reason)

	rec := resp.Records[0]
	assert.Equal(t, aliceID, rec.EmployeeID)
	assert.Equal(t, "Alice Hartono", rec.EmployeeName)
	assert.Equal(t, "EMP-001", rec.EmployeeCode)
	assert.Equal(t, "draft", rec.Status)
	assert.Equal(t, 30, rec.DaysInMonth)
	assert.Equal(t, 29, rec.DaysWorked)
	assert.Equal(t, 1, rec.AbsentDays)
	assertDecimal(t, "750000", rec.TotalAllowances)
	assertDecimal(t, "100000", rec.DeductionAmount)
	assertDecimal(t, "0", rec.OvertimeAmount)
	assertDecimal(t, "3650000", rec.NetSalary)
}

func TestGeneratePayroll_SkipsExistingRecords(t *testing.T) {
	f := newFixture(t)
	f.generate(t)

	resp, err := f.svc.GeneratePayroll(f.ctx, payroll.GeneratePayrollRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.GeneratedCount)
	assert.Equal(t, 2, resp.SkippedCount)
	assert.Contains(t, resp.Skipped, payroll.SkippedEmployee{
		EmployeeID:   aliceID,
		EmployeeName: "Alice Hartono",
		Reason:       payroll.ErrPayrollRecordAlreadyExists.Error(),
	})
}

func TestGeneratePayroll_SelectedEmployees(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GeneratePayroll(f.ctx, payroll.GeneratePayrollRequest{
		PeriodMonth: 6,
		PeriodYear:  2025,
		EmployeeIDs: []string{aliceID, carolID, aliceID},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.GeneratedCount)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, carolID, resp.Skipped[0].EmployeeID)
}

func TestGeneratePayroll_UsesOvertimeSettings(t *testing.T) {
	f := newFixture(t)
	f.att.add(testCompanyID, aliceID, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), "0", "2.5")

	rate := dec("20000")
	disabled := false
	_, err := f.svc.UpdateSettings(f.ctx, payroll.UpdatePayrollSettingsRequest{
		OvertimeRatePerHour:     &rate,
		AbsenceDeductionEnabled: &disabled,
	})
	require.NoError(t, err)

	rec := f.generate(t)

	assertDecimal(t, "2.5", rec.OvertimeHours)
	assertDecimal(t, "50000", rec.OvertimeAmount)
	assert.Equal(t, 1, rec.AbsentDays)
	assertDecimal(t, "0", rec.DeductionAmount)
	assertDecimal(t, "3800000", rec.NetSalary)
}

func TestGeneratePayroll_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GeneratePayroll(f.ctx, payroll.GeneratePayrollRequest{PeriodMonth: 13, PeriodYear: 2025})
	require.Error(t, err)
	assert.Empty(t, f.repo.records)
}

func TestPayrollService_RequiresClaims(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GeneratePayroll(context.Background(), payroll.GeneratePayrollRequest{PeriodMonth: 6, PeriodYear: 2025})
	assert.ErrorIs(t, err, jwt.ErrMissingClaims)
}

func TestSettings_DefaultsThenUpdate(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.GetSettings(f.ctx)
	require.NoError(t, err)
	assert.True(t, got.OvertimeEnabled)
	assert.True(t, got.AbsenceDeductionEnabled)
	assertDecimal(t, "0", got.OvertimeRatePerHour)

	rate := dec("15000")
	updated, err := f.svc.UpdateSettings(f.ctx, payroll.UpdatePayrollSettingsRequest{OvertimeRatePerHour: &rate})
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ID)
	assertDecimal(t, "15000", updated.OvertimeRatePerHour)
	assert.True(t, updated.AbsenceDeductionEnabled)

	negative := dec("-1")
	_, err = f.svc.UpdateSettings(f.ctx, payroll.UpdatePayrollSettingsRequest{OvertimeRatePerHour: &negative})
	assert.Error(t, err)
}

func TestUpdatePayrollRecord(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	bonus, advance := dec("250000"), dec("500000")
	notes := "quarterly bonus"
	updated, err := f.svc.UpdatePayrollRecord(f.ctx, payroll.UpdatePayrollRecordRequest{
		ID:               rec.ID,
		BonusAmount:      &bonus,
		AdvanceDeduction: &advance,
		Notes:            &notes,
	})
	require.NoError(t, err)

	assertDecimal(t, "250000", updated.BonusAmount)
	assertDecimal(t, "500000", updated.AdvanceDeduction)
	assertDecimal(t, "3400000", updated.NetSalary)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
}

func TestUpdatePayrollRecord_PaidIsRejected(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	_, err := f.svc.FinalizePayroll(f.ctx, payroll.FinalizePayrollRequest{RecordIDs: []string{rec.ID}})
	require.NoError(t, err)

	bonus := dec("1")
	_, err = f.svc.UpdatePayrollRecord(f.ctx, payroll.UpdatePayrollRecordRequest{ID: rec.ID, BonusAmount: &bonus})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)

	_, err = f.svc.RecomputePayrollRecord(f.ctx, rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)
}

func TestRecomputePayrollRecord_PreservesManualInputs(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	bonus := dec("200000")
	_, err := f.svc.UpdatePayrollRecord(f.ctx, payroll.UpdatePayrollRecordRequest{ID: rec.ID, BonusAmount: &bonus})
	require.NoError(t, err)

	// The missing day is logged late and the employee got a raise.
	f.att.add(testCompanyID, aliceID, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), "8", "0")
	require.NoError(t, f.emps.UpdateCompensation(f.ctx, testCompanyID, aliceID, compensation.Compensation{
		Base:      dec("3300000"),
		Food:      dec("300000"),
		Housing:   dec("400000"),
		Transport: dec("50000"),
	}))

	updated, err := f.svc.RecomputePayrollRecord(f.ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, updated.AbsentDays)
	assert.Equal(t, 30, updated.DaysWorked)
	assertDecimal(t, "3300000", updated.BaseSalary)
	assertDecimal(t, "0", updated.DeductionAmount)
	assertDecimal(t, "200000", updated.BonusAmount)
	assertDecimal(t, "4250000", updated.NetSalary)
}

func TestFinalizeAndDelete(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	resp, err := f.svc.FinalizePayroll(f.ctx, payroll.FinalizePayrollRequest{RecordIDs: []string{rec.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.FinalizedCount)
	assert.Equal(t, 1, f.tx.Calls)

	got, err := f.svc.GetPayrollRecord(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)
	assert.NotNil(t, got.PaidAt)
	assert.Equal(t, testOwnerID, *f.repo.records[rec.ID].PaidBy)

	_, err = f.svc.FinalizePayroll(f.ctx, payroll.FinalizePayrollRequest{RecordIDs: []string{rec.ID}})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)

	err = f.svc.DeletePayrollRecord(f.ctx, rec.ID)
	assert.ErrorIs(t, err, payroll.ErrCannotDeletePaidRecord)
}

func TestFinalizePayroll_UnknownRecord(t *testing.T) {
	f := newFixture(t)
	f.generate(t)

	_, err := f.svc.FinalizePayroll(f.ctx, payroll.FinalizePayrollRequest{RecordIDs: []string{bobID}})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestDeletePayrollRecord_Draft(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	require.NoError(t, f.svc.DeletePayrollRecord(f.ctx, rec.ID))

	_, err := f.svc.GetPayrollRecord(f.ctx, rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestGetPayrollRecord_OtherCompany(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	other := testutil.AuthContext(t, testOwnerID, "7f1c2b7a-1d2e-4c3b-9a8f-0e1d2c3b4a59", "owner")
	_, err := f.svc.GetPayrollRecord(other, rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestListPayrollRecords(t *testing.T) {
	f := newFixture(t)
	f.generate(t)

	list, err := f.svc.ListPayrollRecords(f.ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Limit)
	assert.Equal(t, 1, list.TotalPages)
	assert.Len(t, list.Data, 1)

	paid := "paid"
	list, err = f.svc.ListPayrollRecords(f.ctx, payroll.PayrollFilter{Status: &paid})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
	assert.Equal(t, 0, list.TotalPages)
}

func TestGetPayrollSummary_CachedAndInvalidated(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	first, err := f.svc.GetPayrollSummary(f.ctx, 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalEmployees)
	assert.Equal(t, 1, first.DraftCount)
	assertDecimal(t, "3650000", first.TotalNetSalary)

	second, err := f.svc.GetPayrollSummary(f.ctx, 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.summary)
	assertDecimal(t, "3650000", second.TotalNetSalary)
	assert.True(t, f.cache.Has(SummaryCacheKey(testCompanyID, june2025)))

	_, err = f.svc.FinalizePayroll(f.ctx, payroll.FinalizePayrollRequest{RecordIDs: []string{rec.ID}})
	require.NoError(t, err)
	assert.False(t, f.cache.Has(SummaryCacheKey(testCompanyID, june2025)))

	third, err := f.svc.GetPayrollSummary(f.ctx, 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.summary)
	assert.Equal(t, 1, third.PaidCount)
	assert.Equal(t, 0, third.DraftCount)
}

func TestGetPayrollSummary_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetPayrollSummary(f.ctx, 0, 2025)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestRenderPayslip_HTML(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	slip, err := f.svc.RenderPayslip(f.ctx, rec.ID, payroll.PayslipFormatHTML)
	require.NoError(t, err)

	body := string(slip.Body)
	assert.Equal(t, "text/html; charset=utf-8", slip.ContentType)
	assert.Equal(t, "payslip-EMP-001-2025-06.html", slip.Filename)
	assert.Contains(t, body, "CMLabs")
	assert.Contains(t, body, "Alice Hartono")
	assert.Contains(t, body, "June 2025")
	assert.Contains(t, body, "Absence (1 days)")
	assert.Contains(t, body, "Rp")
	assert.Empty(t, slip.StorageKey)
}

func TestRenderPayslip_PDFStored(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	slip, err := f.svc.RenderPayslip(f.ctx, rec.ID, payroll.PayslipFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", slip.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), slip.Body)
	assert.Contains(t, f.renderer.html, "Alice Hartono")
	require.NotEmpty(t, slip.StorageKey)
	assert.Contains(t, slip.StorageKey, "payslips/"+testCompanyID+"/2025-06/")
	assert.Equal(t, "http://files.test/"+slip.StorageKey, slip.URL)
	assert.Len(t, f.files.uploads, 1)
}

func TestRenderPayslip_PDFWithoutRenderer(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)
	f.svc.renderer = nil

	_, err := f.svc.RenderPayslip(f.ctx, rec.ID, payroll.PayslipFormatPDF)
	assert.ErrorIs(t, err, payroll.ErrPDFRendererUnavailable)
}

func TestRecomputeDrafts(t *testing.T) {
	f := newFixture(t)
	rec := f.generate(t)

	f.att.add(testCompanyID, aliceID, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), "4", "0")

	count, err := f.svc.RecomputeDrafts(context.Background(), june2025)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got := f.repo.records[rec.ID]
	assert.Equal(t, 0, got.AbsentDays)
	assertDecimal(t, "3750000", got.NetSalary)

	_, err = f.svc.FinalizePayroll(f.ctx, payroll.FinalizePayrollRequest{RecordIDs: []string{rec.ID}})
	require.NoError(t, err)

	count, err = f.svc.RecomputeDrafts(context.Background(), june2025)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAggregate_Stateless(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Aggregate(context.Background(), payroll.AggregateRequest{
		PeriodMonth: 9,
		PeriodYear:  2025,
		BasicSalary: dec("3000000"),
		Attendance: []payroll.AttendanceDayRequest{
			{Date: "2025-09-11", Hours: dec("8")},
			{Date: "2025-09-13", Hours: dec("8")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DaysInMonth)
	assert.Equal(t, 2, resp.DaysWorked)
	// Every day except the two worked and the covered Friday the 12th.
	assert.Equal(t, 27, resp.AbsentDays)

	_, err = f.svc.Aggregate(context.Background(), payroll.AggregateRequest{
		PeriodMonth: 9,
		PeriodYear:  2025,
		Attendance:  []payroll.AttendanceDayRequest{{Date: "11-09-2025"}},
	})
	assert.Error(t, err)
}
