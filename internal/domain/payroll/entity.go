package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollSettings - Company payroll configuration
type PayrollSettings struct {
	ID                      string
	CompanyID               string
	OvertimeEnabled         bool
	OvertimeRatePerHour     decimal.Decimal
	AbsenceDeductionEnabled bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSettings applies when a company has not saved any settings.
func DefaultSettings(companyID string) PayrollSettings {
	return PayrollSettings{
		CompanyID:               companyID,
		OvertimeEnabled:         true,
		OvertimeRatePerHour:     decimal.Zero,
		AbsenceDeductionEnabled: true,
	}
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year, month int) Period {
	return Period{Year: year, Month: time.Month(month)}
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December && p.Year >= 2000 && p.Year <= 2100
}

// Start is the first day of the month at UTC midnight.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month at UTC midnight.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

func (p Period) DaysInMonth() int {
	return p.End().Day()
}

func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// PayrollRecord - Generated payroll result
type PayrollRecord struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	PeriodMonth        int
	PeriodYear         int
	BaseSalary         decimal.Decimal
	FoodAllowance      decimal.Decimal
	HousingAllowance   decimal.Decimal
	TransportAllowance decimal.Decimal
	TotalAllowances    decimal.Decimal
	DaysInMonth        int
	DaysWorked         int
	AbsentDays         int
	RegularHours       decimal.Decimal
	OvertimeHours      decimal.Decimal
	OvertimeAmount     decimal.Decimal
	BonusAmount        decimal.Decimal
	DeductionAmount    decimal.Decimal // absence deduction
	AdvanceDeduction   decimal.Decimal
	NetSalary          decimal.Decimal
	Status             PayrollStatus
	PaidAt             *time.Time
	PaidBy             *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	Position     *string
}

func (r PayrollRecord) Period() Period {
	return NewPeriod(r.PeriodYear, r.PeriodMonth)
}

func (r PayrollRecord) IsPaid() bool {
	return r.Status == PayrollStatusPaid
}

// AttendanceDay is one logged day as seen by the aggregator.
type AttendanceDay struct {
	Date     time.Time
	Hours    decimal.Decimal
	Overtime decimal.Decimal
}

// AttendanceSummary is the result of aggregating a month of attendance.
type AttendanceSummary struct {
	DaysInMonth      int             `json:"days_in_month"`
	DaysWorked       int             `json:"days_worked"`
	AbsentDays       int             `json:"absent_days"`
	TotalWorkedHours decimal.Decimal `json:"total_worked_hours"`
	RegularHours     decimal.Decimal `json:"regular_hours"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	AbsenceDeduction decimal.Decimal `json:"absence_deduction"`
}

type NetSalaryInput struct {
	BasicSalary      decimal.Decimal
	Allowances       decimal.Decimal
	OvertimeAmount   decimal.Decimal
	BonusAmount      decimal.Decimal
	AbsenceDeduction decimal.Decimal
	AdvanceDeduction decimal.Decimal
}
