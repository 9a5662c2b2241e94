package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTINGS DTOs ==========

type PayrollSettingsResponse struct {
	ID                      string          `json:"id,omitempty"`
	CompanyID               string          `json:"company_id"`
	OvertimeEnabled         bool            `json:"overtime_enabled"`
	OvertimeRatePerHour     decimal.Decimal `json:"overtime_rate_per_hour"`
	AbsenceDeductionEnabled bool            `json:"absence_deduction_enabled"`
}

func NewPayrollSettingsResponse(s PayrollSettings) PayrollSettingsResponse {
	return PayrollSettingsResponse{
		ID:                      s.ID,
		CompanyID:               s.CompanyID,
		OvertimeEnabled:         s.OvertimeEnabled,
		OvertimeRatePerHour:     s.OvertimeRatePerHour,
		AbsenceDeductionEnabled: s.AbsenceDeductionEnabled,
	}
}

type UpdatePayrollSettingsRequest struct {
	OvertimeEnabled         *bool            `json:"overtime_enabled,omitempty"`
	OvertimeRatePerHour     *decimal.Decimal `json:"overtime_rate_per_hour,omitempty"`
	AbsenceDeductionEnabled *bool            `json:"absence_deduction_enabled,omitempty"`
}

func (r *UpdatePayrollSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OvertimeRatePerHour != nil && r.OvertimeRatePerHour.IsNegative() {
		errs.Add("overtime_rate_per_hour", "must be non-negative")
	}

	return errs.Err()
}

// Apply copies the non-nil fields onto s.
func (r *UpdatePayrollSettingsRequest) Apply(s *PayrollSettings) {
	if r.OvertimeEnabled != nil {
		s.OvertimeEnabled = *r.OvertimeEnabled
	}
	if r.OvertimeRatePerHour != nil {
		s.OvertimeRatePerHour = *r.OvertimeRatePerHour
	}
	if r.AbsenceDeductionEnabled != nil {
		s.AbsenceDeductionEnabled = *r.AbsenceDeductionEnabled
	}
}

// ========== PAYROLL RECORD DTOs ==========

type GeneratePayrollRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if r.PeriodYear < 2000 || r.PeriodYear > 2100 {
		errs.Add("period_year", "must be between 2000 and 2100")
	}
	for _, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("employee_ids", "contains an invalid id")
			break
		}
	}

	return errs.Err()
}

func (r *GeneratePayrollRequest) Period() Period {
	return NewPeriod(r.PeriodYear, r.PeriodMonth)
}

type SkippedEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
}

type GeneratePayrollResponse struct {
	PeriodMonth    int                     `json:"period_month"`
	PeriodYear     int                     `json:"period_year"`
	GeneratedCount int                     `json:"generated_count"`
	SkippedCount   int                     `json:"skipped_count"`
	Records        []PayrollRecordResponse `json:"records"`
	Skipped        []SkippedEmployee       `json:"skipped,omitempty"`
}

// UpdatePayrollRecordRequest edits the manual inputs of a draft record.
type UpdatePayrollRecordRequest struct {
	ID               string           `json:"-"`
	BonusAmount      *decimal.Decimal `json:"bonus_amount,omitempty"`
	AdvanceDeduction *decimal.Decimal `json:"advance_deduction,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

func (r *UpdatePayrollRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid payroll record id")
	}
	if r.BonusAmount != nil && r.BonusAmount.IsNegative() {
		errs.Add("bonus_amount", "must be non-negative")
	}
	if r.AdvanceDeduction != nil && r.AdvanceDeduction.IsNegative() {
		errs.Add("advance_deduction", "must be non-negative")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "must not exceed 1000 characters")
	}

	return errs.Err()
}

type FinalizePayrollRequest struct {
	RecordIDs []string `json:"record_ids"`
}

func (r *FinalizePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs.Add("record_ids", "at least one record is required")
	}
	for _, id := range r.RecordIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("record_ids", "contains an invalid id")
			break
		}
	}

	return errs.Err()
}

type FinalizePayrollResponse struct {
	FinalizedCount int64 `json:"finalized_count"`
}

type PayrollRecordResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name"`
	EmployeeCode       string          `json:"employee_code"`
	Position           *string         `json:"position,omitempty"`
	PeriodMonth        int             `json:"period_month"`
	PeriodYear         int             `json:"period_year"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	FoodAllowance      decimal.Decimal `json:"food_allowance"`
	HousingAllowance   decimal.Decimal `json:"housing_allowance"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
	TotalAllowances    decimal.Decimal `json:"total_allowances"`
	DaysInMonth        int             `json:"days_in_month"`
	DaysWorked         int             `json:"days_worked"`
	AbsentDays         int             `json:"absent_days"`
	RegularHours       decimal.Decimal `json:"regular_hours"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	OvertimeAmount     decimal.Decimal `json:"overtime_amount"`
	BonusAmount        decimal.Decimal `json:"bonus_amount"`
	DeductionAmount    decimal.Decimal `json:"deduction_amount"`
	AdvanceDeduction   decimal.Decimal `json:"advance_deduction"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	Status             string          `json:"status"`
	PaidAt             *string         `json:"paid_at,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
}

func NewPayrollRecordResponse(r PayrollRecord) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		Position:           r.Position,
		PeriodMonth:        r.PeriodMonth,
		PeriodYear:         r.PeriodYear,
		BaseSalary:         r.BaseSalary,
		FoodAllowance:      r.FoodAllowance,
		HousingAllowance:   r.HousingAllowance,
		TransportAllowance: r.TransportAllowance,
		TotalAllowances:    r.TotalAllowances,
		DaysInMonth:        r.DaysInMonth,
		DaysWorked:         r.DaysWorked,
		AbsentDays:         r.AbsentDays,
		RegularHours:       r.RegularHours,
		OvertimeHours:      r.OvertimeHours,
		OvertimeAmount:     r.OvertimeAmount,
		BonusAmount:        r.BonusAmount,
		DeductionAmount:    r.DeductionAmount,
		AdvanceDeduction:   r.AdvanceDeduction,
		NetSalary:          r.NetSalary,
		Status:             string(r.Status),
		Notes:              r.Notes,
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		resp.EmployeeCode = *r.EmployeeCode
	}
	if r.PaidAt != nil {
		paidAt := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.PeriodMonth != nil && (*f.PeriodMonth < 1 || *f.PeriodMonth > 12) {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if f.Status != nil && *f.Status != string(PayrollStatusDraft) && *f.Status != string(PayrollStatusPaid) {
		errs.Add("status", "must be draft or paid")
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "invalid employee id")
	}
	if f.SortBy == "" {
		f.SortBy = "employee_name"
	}
	if !validator.IsInSlice(f.SortBy, []string{"employee_name", "net_salary", "period", "created_at"}) {
		errs.Add("sort_by", "invalid sort_by")
	}
	if f.SortOrder == "" {
		f.SortOrder = "asc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "sort_order must be asc or desc")
	}

	return errs.Err()
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
}

type PayrollSummaryResponse struct {
	PeriodMonth           int             `json:"period_month"`
	PeriodYear            int             `json:"period_year"`
	TotalEmployees        int             `json:"total_employees"`
	TotalBaseSalary       decimal.Decimal `json:"total_base_salary"`
	TotalAllowances       decimal.Decimal `json:"total_allowances"`
	TotalOvertime         decimal.Decimal `json:"total_overtime"`
	TotalBonus            decimal.Decimal `json:"total_bonus"`
	TotalAbsenceDeduction decimal.Decimal `json:"total_absence_deduction"`
	TotalAdvanceDeduction decimal.Decimal `json:"total_advance_deduction"`
	TotalNetSalary        decimal.Decimal `json:"total_net_salary"`
	DraftCount            int             `json:"draft_count"`
	PaidCount             int             `json:"paid_count"`
}

// ========== PAYSLIP ==========

type PayslipFormat string

const (
	PayslipFormatHTML PayslipFormat = "html"
	PayslipFormatPDF  PayslipFormat = "pdf"
)

func ParsePayslipFormat(s string) (PayslipFormat, error) {
	switch PayslipFormat(s) {
	case "", PayslipFormatHTML:
		return PayslipFormatHTML, nil
	case PayslipFormatPDF:
		return PayslipFormatPDF, nil
	}
	return "", ErrInvalidPayslipFormat
}

// Payslip is a rendered payslip document.
type Payslip struct {
	ContentType string
	Filename    string
	Body        []byte
	// StorageKey is set for PDFs persisted to file storage.
	StorageKey string
	URL        string
}

// ========== STATELESS AGGREGATION ==========

type AttendanceDayRequest struct {
	Date     string          `json:"date"`
	Hours    decimal.Decimal `json:"hours"`
	Overtime decimal.Decimal `json:"overtime"`
}

// AggregateRequest runs the aggregator over caller supplied attendance.
type AggregateRequest struct {
	PeriodMonth int                    `json:"period_month"`
	PeriodYear  int                    `json:"period_year"`
	BasicSalary decimal.Decimal        `json:"basic_salary"`
	Attendance  []AttendanceDayRequest `json:"attendance"`
}

func (r *AggregateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.PeriodMonth, r.PeriodYear) {
		errs.Add("period", ErrInvalidPeriod.Error())
	}
	if r.BasicSalary.IsNegative() {
		errs.Add("basic_salary", "must be non-negative")
	}
	for _, d := range r.Attendance {
		if _, ok := validator.IsValidDate(d.Date); !ok {
			errs.Add("attendance", "date must be in YYYY-MM-DD format")
			break
		}
		if d.Hours.IsNegative() || d.Overtime.IsNegative() {
			errs.Add("attendance", "hours and overtime must be non-negative")
			break
		}
	}

	return errs.Err()
}

// Days converts the request entries. Call Validate first.
func (r *AggregateRequest) Days() []AttendanceDay {
	days := make([]AttendanceDay, 0, len(r.Attendance))
	for _, d := range r.Attendance {
		date, _ := validator.IsValidDate(d.Date)
		days = append(days, AttendanceDay{Date: date, Hours: d.Hours, Overtime: d.Overtime})
	}
	return days
}

type AggregateResponse struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
	AttendanceSummary
}
