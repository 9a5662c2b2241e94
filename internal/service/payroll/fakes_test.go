package payroll

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---- payroll repository ----

type fakePayrollRepo struct {
	mu       sync.Mutex
	settings map[string]payroll.PayrollSettings
	records  map[string]payroll.PayrollRecord
	order    []string
	summary  int // GetPayrollSummary calls
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		settings: make(map[string]payroll.PayrollSettings),
		records:  make(map[string]payroll.PayrollRecord),
	}
}

func (f *fakePayrollRepo) GetSettings(_ context.Context, companyID string) (payroll.PayrollSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[companyID]
	if !ok {
		return payroll.PayrollSettings{}, payroll.ErrPayrollSettingsNotFound
	}
	return s, nil
}

func (f *fakePayrollRepo) UpsertSettings(_ context.Context, s payroll.PayrollSettings) (payroll.PayrollSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	f.settings[s.CompanyID] = s
	return s, nil
}

func (f *fakePayrollRepo) CreatePayrollRecord(_ context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.records {
		if existing.CompanyID == r.CompanyID && existing.EmployeeID == r.EmployeeID &&
			existing.PeriodYear == r.PeriodYear && existing.PeriodMonth == r.PeriodMonth {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.records[r.ID] = r
	f.order = append(f.order, r.ID)
	return r, nil
}

func (f *fakePayrollRepo) GetPayrollRecordByID(_ context.Context, id, companyID string) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) ExistsForEmployeePeriod(_ context.Context, companyID, employeeID string, period payroll.Period) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.CompanyID == companyID && r.EmployeeID == employeeID && r.Period() == period {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayrollRepo) ListPayrollRecords(_ context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollRecord
	for _, id := range f.order {
		r, ok := f.records[id]
		if !ok || r.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(r.Status) != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	total := int64(len(out))
	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f *fakePayrollRepo) UpdateDraftRecord(_ context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.records[r.ID]
	if !ok || existing.CompanyID != r.CompanyID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if existing.IsPaid() {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
	}
	r.UpdatedAt = time.Now()
	f.records[r.ID] = r
	return r, nil
}

func (f *fakePayrollRepo) FinalizePayrollRecords(_ context.Context, ids []string, paidBy, companyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now()
	for _, id := range ids {
		r, ok := f.records[id]
		if !ok || r.CompanyID != companyID || r.IsPaid() {
			continue
		}
		r.Status = payroll.PayrollStatusPaid
		r.PaidAt = &now
		by := paidBy
		r.PaidBy = &by
		f.records[id] = r
		n++
	}
	return n, nil
}

func (f *fakePayrollRepo) DeletePayrollRecord(_ context.Context, id, companyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return payroll.ErrPayrollRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakePayrollRepo) ListDraftRecordIDs(_ context.Context, companyID string, period payroll.Period) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, id := range f.order {
		r, ok := f.records[id]
		if ok && r.CompanyID == companyID && r.Period() == period && !r.IsPaid() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakePayrollRepo) ListCompanyIDsWithDrafts(_ context.Context, period payroll.Period) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := make(map[string]bool)
	for _, r := range f.records {
		if r.Period() == period && !r.IsPaid() {
			set[r.CompanyID] = true
		}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakePayrollRepo) GetPayrollSummary(_ context.Context, companyID string, period payroll.Period) (payroll.PayrollSummaryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summary++
	s := payroll.PayrollSummaryResponse{
		PeriodMonth:           int(period.Month),
		PeriodYear:            period.Year,
		TotalBaseSalary:       decimal.Zero,
		TotalAllowances:       decimal.Zero,
		TotalOvertime:         decimal.Zero,
		TotalBonus:            decimal.Zero,
		TotalAbsenceDeduction: decimal.Zero,
		TotalAdvanceDeduction: decimal.Zero,
		TotalNetSalary:        decimal.Zero,
	}
	for _, r := range f.records {
		if r.CompanyID != companyID || r.Period() != period {
			continue
		}
		s.TotalEmployees++
		s.TotalBaseSalary = s.TotalBaseSalary.Add(r.BaseSalary)
		s.TotalAllowances = s.TotalAllowances.Add(r.TotalAllowances)
		s.TotalNetSalary = s.TotalNetSalary.Add(r.NetSalary)
		if r.IsPaid() {
			s.PaidCount++
		} else {
			s.DraftCount++
		}
	}
	return s, nil
}

// ---- attendance repository ----

type fakeAttendanceRepo struct {
	entries []attendance.Attendance
}

func (f *fakeAttendanceRepo) add(companyID, employeeID string, date time.Time, hours, overtime string) {
	f.entries = append(f.entries, attendance.Attendance{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		EmployeeID:    employeeID,
		Date:          date,
		Hours:         decimal.RequireFromString(hours),
		OvertimeHours: decimal.RequireFromString(overtime),
	})
}

// fillMonth logs 8h on every day of the period except the listed days.
func (f *fakeAttendanceRepo) fillMonth(companyID, employeeID string, period payroll.Period, except ...int) {
	skip := make(map[int]bool)
	for _, d := range except {
		skip[d] = true
	}
	for d := 1; d <= period.DaysInMonth(); d++ {
		if !skip[d] {
			f.add(companyID, employeeID, time.Date(period.Year, period.Month, d, 0, 0, 0, 0, time.UTC), "8", "0")
		}
	}
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.entries = append(f.entries, a)
	return a, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, companyID, id string) (attendance.Attendance, error) {
	for _, a := range f.entries {
		if a.ID == id && a.CompanyID == companyID {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) ListByEmployeeBetween(_ context.Context, companyID, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range f.entries {
		if a.CompanyID == companyID && a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Delete(context.Context, string, string) error {
	return nil
}

// ---- pdf and file storage ----

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.html = html
	return []byte("%PDF-1.4 fake"), nil
}

type fakeFileService struct {
	uploads map[string][]byte
}

func (f *fakeFileService) UploadPayslip(_ context.Context, companyID string, year, month int, pdf []byte) (string, error) {
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	key := "payslips/" + companyID + "/" + payroll.NewPeriod(year, month).String() + "/" + uuid.NewString() + ".pdf"
	f.uploads[key] = pdf
	return key, nil
}

func (f *fakeFileService) DeleteFile(_ context.Context, key string) error {
	delete(f.uploads, key)
	return nil
}

func (f *fakeFileService) GetFileURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "http://files.test/" + key, nil
}
