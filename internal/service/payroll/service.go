package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/file"
	"github.com/shopspring/decimal"
)

const payslipURLExpiry = 15 * time.Minute

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	companyRepo    company.CompanyRepository
	summaryCache   payroll.SummaryCache
	renderer       pdf.Renderer
	fileService    file.FileService
}

// NewPayrollService wires the payroll service. renderer and fileService may be
// nil, in which case PDF payslips are unavailable or not persisted.
func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	companyRepo company.CompanyRepository,
	summaryCache payroll.SummaryCache,
	renderer pdf.Renderer,
	fileService file.FileService,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		companyRepo:    companyRepo,
		summaryCache:   summaryCache,
		renderer:       renderer,
		fileService:    fileService,
	}
}

var (
	_ payroll.PayrollService  = (*PayrollServiceImpl)(nil)
	_ payroll.DraftRecomputer = (*PayrollServiceImpl)(nil)
)

// ========== SETTINGS ==========

func (s *PayrollServiceImpl) loadSettings(ctx context.Context, companyID string) (payroll.PayrollSettings, error) {
	settings, err := s.payrollRepo.GetSettings(ctx, companyID)
	if errors.Is(err, payroll.ErrPayrollSettingsNotFound) {
		return payroll.DefaultSettings(companyID), nil
	}
	if err != nil {
		return payroll.PayrollSettings{}, err
	}
	return settings, nil
}

func (s *PayrollServiceImpl) GetSettings(ctx context.Context) (payroll.PayrollSettingsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	settings, err := s.loadSettings(ctx, claims.CompanyID)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}
	return payroll.NewPayrollSettingsResponse(settings), nil
}

func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdatePayrollSettingsRequest) (payroll.PayrollSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	current, err := s.loadSettings(ctx, claims.CompanyID)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}
	req.Apply(&current)

	updated, err := s.payrollRepo.UpsertSettings(ctx, current)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}
	return payroll.NewPayrollSettingsResponse(updated), nil
}

// ========== PAYROLL GENERATION ==========

// attendanceDays loads the period plus one day either side so that a Friday at
// the month edge can see its Thursday or Saturday.
func (s *PayrollServiceImpl) attendanceDays(ctx context.Context, companyID, employeeID string, period payroll.Period) ([]payroll.AttendanceDay, error) {
	entries, err := s.attendanceRepo.ListByEmployeeBetween(ctx, companyID, employeeID,
		period.Start().AddDate(0, 0, -1), period.End().AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance for employee %s: %w", employeeID, err)
	}

	days := make([]payroll.AttendanceDay, 0, len(entries))
	for _, e := range entries {
		days = append(days, payroll.AttendanceDay{Date: e.Date, Hours: e.Hours, Overtime: e.OvertimeHours})
	}
	return days, nil
}

func (s *PayrollServiceImpl) buildRecord(ctx context.Context, emp employee.Employee, period payroll.Period, settings payroll.PayrollSettings) (payroll.PayrollRecord, error) {
	days, err := s.attendanceDays(ctx, emp.CompanyID, emp.ID, period)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	record := payroll.PayrollRecord{
		EmployeeID:         emp.ID,
		CompanyID:          emp.CompanyID,
		PeriodMonth:        int(period.Month),
		PeriodYear:         period.Year,
		BaseSalary:         emp.Compensation.Base,
		FoodAllowance:      emp.Compensation.Food,
		HousingAllowance:   emp.Compensation.Housing,
		TransportAllowance: emp.Compensation.Transport,
		BonusAmount:        decimal.Zero,
		AdvanceDeduction:   decimal.Zero,
		Status:             payroll.PayrollStatusDraft,
	}
	applySummary(&record, settings, AggregateAttendance(period, days, record.BaseSalary))
	return record, nil
}

func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}
	companyID := claims.CompanyID
	period := req.Period()

	settings, err := s.loadSettings(ctx, companyID)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}

	resp := payroll.GeneratePayrollResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Records:     []payroll.PayrollRecordResponse{},
	}
	skip := func(emp employee.Employee, reason string) {
		resp.Skipped = append(resp.Skipped, payroll.SkippedEmployee{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			Reason:       reason,
		})
	}

	if len(req.EmployeeIDs) > 0 {
		byID := make(map[string]employee.Employee, len(employees))
		for _, emp := range employees {
			byID[emp.ID] = emp
		}
		selected := make([]employee.Employee, 0, len(req.EmployeeIDs))
		seen := make(map[string]bool, len(req.EmployeeIDs))
		for _, id := range req.EmployeeIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			emp, ok := byID[id]
			if !ok {
				skip(employee.Employee{ID: id}, "employee not found or not active")
				continue
			}
			selected = append(selected, emp)
		}
		employees = selected
	}

	for _, emp := range employees {
		if !emp.HasSalary() {
			skip(emp, payroll.ErrEmployeeHasNoBaseSalary.Error())
			continue
		}

		exists, err := s.payrollRepo.ExistsForEmployeePeriod(ctx, companyID, emp.ID, period)
		if err != nil {
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to check existing payroll record: %w", err)
		}
		if exists {
			skip(emp, payroll.ErrPayrollRecordAlreadyExists.Error())
			continue
		}

		record, err := s.buildRecord(ctx, emp, period, settings)
		if err != nil {
			return payroll.GeneratePayrollResponse{}, err
		}

		created, err := s.payrollRepo.CreatePayrollRecord(ctx, record)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
				skip(emp, payroll.ErrPayrollRecordAlreadyExists.Error())
				continue
			}
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to create payroll record for employee %s: %w", emp.ID, err)
		}
		created.EmployeeName = &emp.FullName
		created.EmployeeCode = &emp.EmployeeCode
		created.Position = emp.Position
		resp.Records = append(resp.Records, payroll.NewPayrollRecordResponse(created))
	}

	resp.GeneratedCount = len(resp.Records)
	resp.SkippedCount = len(resp.Skipped)
	if resp.GeneratedCount > 0 {
		s.summaryCache.Invalidate(ctx, companyID, period)
	}

	slog.InfoContext(ctx, "payroll generated",
		"company_id", companyID,
		"period", period.String(),
		"generated", resp.GeneratedCount,
		"skipped", resp.SkippedCount,
	)
	return resp, nil
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.NewPayrollRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, totalCount, err := s.payrollRepo.ListPayrollRecords(ctx, claims.CompanyID, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, payroll.NewPayrollRecordResponse(r))
	}

	totalPages := int((totalCount + int64(filter.Limit) - 1) / int64(filter.Limit))
	return payroll.ListPayrollRecordResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *PayrollServiceImpl) UpdatePayrollRecord(ctx context.Context, req payroll.UpdatePayrollRecordRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if record.IsPaid() {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordAlreadyPaid
	}

	if req.BonusAmount != nil {
		record.BonusAmount = *req.BonusAmount
	}
	if req.AdvanceDeduction != nil {
		record.AdvanceDeduction = *req.AdvanceDeduction
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	recomputeNet(&record)

	updated, err := s.payrollRepo.UpdateDraftRecord(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	s.summaryCache.Invalidate(ctx, claims.CompanyID, updated.Period())

	return payroll.NewPayrollRecordResponse(updated), nil
}

// recompute refreshes compensation and attendance figures of a draft from
// current data. Bonus, advance and notes are preserved.
func (s *PayrollServiceImpl) recompute(ctx context.Context, record payroll.PayrollRecord, settings payroll.PayrollSettings) (payroll.PayrollRecord, error) {
	if record.IsPaid() {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
	}

	emp, err := s.employeeRepo.GetByID(ctx, record.CompanyID, record.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollRecord{}, payroll.ErrEmployeeNotFound
		}
		return payroll.PayrollRecord{}, err
	}

	period := record.Period()
	days, err := s.attendanceDays(ctx, record.CompanyID, record.EmployeeID, period)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	record.BaseSalary = emp.Compensation.Base
	record.FoodAllowance = emp.Compensation.Food
	record.HousingAllowance = emp.Compensation.Housing
	record.TransportAllowance = emp.Compensation.Transport
	applySummary(&record, settings, AggregateAttendance(period, days, record.BaseSalary))

	return s.payrollRepo.UpdateDraftRecord(ctx, record)
}

func (s *PayrollServiceImpl) RecomputePayrollRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	settings, err := s.loadSettings(ctx, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	updated, err := s.recompute(ctx, record, settings)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	s.summaryCache.Invalidate(ctx, claims.CompanyID, updated.Period())

	return payroll.NewPayrollRecordResponse(updated), nil
}

// RecomputeDrafts refreshes every draft of period across all companies. A
// failing record is logged and skipped; the joined errors are returned.
func (s *PayrollServiceImpl) RecomputeDrafts(ctx context.Context, period payroll.Period) (int, error) {
	companyIDs, err := s.payrollRepo.ListCompanyIDsWithDrafts(ctx, period)
	if err != nil {
		return 0, fmt.Errorf("failed to list companies with drafts: %w", err)
	}

	var (
		count int
		errs  []error
	)
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		settings, err := s.loadSettings(ctx, companyID)
		if err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}

		ids, err := s.payrollRepo.ListDraftRecordIDs(ctx, companyID, period)
		if err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}

		for _, id := range ids {
			record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, companyID)
			if err == nil {
				_, err = s.recompute(ctx, record, settings)
			}
			if err != nil {
				// Finalized between listing and update.
				if errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid) {
					continue
				}
				slog.WarnContext(ctx, "failed to recompute payroll draft", "company_id", companyID, "record_id", id, "error", err)
				errs = append(errs, fmt.Errorf("record %s: %w", id, err))
				continue
			}
			count++
		}
		s.summaryCache.Invalidate(ctx, companyID, period)
	}

	return count, errors.Join(errs...)
}

func (s *PayrollServiceImpl) FinalizePayroll(ctx context.Context, req payroll.FinalizePayrollRequest) (payroll.FinalizePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}

	periods := make(map[payroll.Period]struct{})
	var finalized int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range req.RecordIDs {
			record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, claims.CompanyID)
			if err != nil {
				return err
			}
			if record.IsPaid() {
				return payroll.ErrPayrollRecordAlreadyPaid
			}
			periods[record.Period()] = struct{}{}
		}

		n, err := s.payrollRepo.FinalizePayrollRecords(ctx, req.RecordIDs, claims.UserID, claims.CompanyID)
		if err != nil {
			return err
		}
		finalized = n
		return nil
	})
	if err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}

	for period := range periods {
		s.summaryCache.Invalidate(ctx, claims.CompanyID, period)
	}
	slog.InfoContext(ctx, "payroll finalized", "company_id", claims.CompanyID, "paid_by", claims.UserID, "count", finalized)

	return payroll.FinalizePayrollResponse{FinalizedCount: finalized}, nil
}

func (s *PayrollServiceImpl) DeletePayrollRecord(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, claims.CompanyID)
	if err != nil {
		return err
	}
	if record.IsPaid() {
		return payroll.ErrCannotDeletePaidRecord
	}

	if err := s.payrollRepo.DeletePayrollRecord(ctx, id, claims.CompanyID); err != nil {
		return err
	}
	s.summaryCache.Invalidate(ctx, claims.CompanyID, record.Period())
	return nil
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	period := payroll.NewPeriod(year, month)
	if !period.Valid() {
		return payroll.PayrollSummaryResponse{}, payroll.ErrInvalidPeriod
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	if cached, ok := s.summaryCache.Get(ctx, claims.CompanyID, period); ok {
		return cached, nil
	}

	summary, err := s.payrollRepo.GetPayrollSummary(ctx, claims.CompanyID, period)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}
	s.summaryCache.Set(ctx, claims.CompanyID, period, summary)
	return summary, nil
}

// ========== PAYSLIP ==========

func (s *PayrollServiceImpl) RenderPayslip(ctx context.Context, id string, format payroll.PayslipFormat) (payroll.Payslip, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if format != payroll.PayslipFormatHTML && format != payroll.PayslipFormatPDF {
		return payroll.Payslip{}, payroll.ErrInvalidPayslipFormat
	}
	if format == payroll.PayslipFormatPDF && s.renderer == nil {
		return payroll.Payslip{}, payroll.ErrPDFRendererUnavailable
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, claims.CompanyID)
	if err != nil {
		return payroll.Payslip{}, err
	}
	comp, err := s.companyRepo.GetByID(ctx, claims.CompanyID)
	if err != nil {
		return payroll.Payslip{}, err
	}

	html, err := RenderPayslipHTML(comp, record)
	if err != nil {
		return payroll.Payslip{}, err
	}

	if format == payroll.PayslipFormatHTML {
		return payroll.Payslip{
			ContentType: "text/html; charset=utf-8",
			Filename:    payslipFilename(record, format),
			Body:        []byte(html),
		}, nil
	}

	body, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to render payslip pdf: %w", err)
	}

	payslip := payroll.Payslip{
		ContentType: "application/pdf",
		Filename:    payslipFilename(record, format),
		Body:        body,
	}
	if s.fileService == nil {
		return payslip, nil
	}

	key, err := s.fileService.UploadPayslip(ctx, claims.CompanyID, record.PeriodYear, record.PeriodMonth, body)
	if err != nil {
		// The document is still returned to the caller.
		slog.WarnContext(ctx, "failed to store payslip", "record_id", record.ID, "error", err)
		return payslip, nil
	}
	payslip.StorageKey = key
	if url, err := s.fileService.GetFileURL(ctx, key, payslipURLExpiry); err == nil {
		payslip.URL = url
	}
	return payslip, nil
}

// ========== STATELESS ==========

func (s *PayrollServiceImpl) Aggregate(ctx context.Context, req payroll.AggregateRequest) (payroll.AggregateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AggregateResponse{}, err
	}

	period := payroll.NewPeriod(req.PeriodYear, req.PeriodMonth)
	return payroll.AggregateResponse{
		PeriodMonth:       req.PeriodMonth,
		PeriodYear:        req.PeriodYear,
		AttendanceSummary: AggregateAttendance(period, req.Days(), req.BasicSalary),
	}, nil
}
