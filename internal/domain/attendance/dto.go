package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var maxDayHours = decimal.NewFromInt(24)

type RecordAttendanceRequest struct {
	EmployeeID    string          `json:"-"`
	Date          string          `json:"date"`
	Hours         decimal.Decimal `json:"hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Notes         *string         `json:"notes,omitempty"`
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "invalid employee id")
	}
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if !validator.IsBetween(r.Hours, decimal.Zero, maxDayHours) {
		errs.Add("hours", ErrHoursOutOfRange.Error())
	}
	if !validator.IsBetween(r.OvertimeHours, decimal.Zero, maxDayHours) {
		errs.Add("overtime_hours", ErrHoursOutOfRange.Error())
	} else if r.Hours.Add(r.OvertimeHours).GreaterThan(maxDayHours) {
		errs.Add("overtime_hours", ErrDayExceeds24Hours.Error())
	}

	return errs.Err()
}

type ListAttendanceRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "invalid employee id")
	}
	if !validator.IsValidPeriod(r.Month, r.Year) {
		errs.Add("period", "month must be 1-12 and year 2000-2100")
	}
	return errs.Err()
}

type AttendanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Date          string          `json:"date"`
	Weekday       string          `json:"weekday"`
	Hours         decimal.Decimal `json:"hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Notes         *string         `json:"notes,omitempty"`
	UpdatedAt     string          `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Date:          a.Date.Format(validator.DateLayout),
		Weekday:       a.Date.Weekday().String(),
		Hours:         a.Hours,
		OvertimeHours: a.OvertimeHours,
		Notes:         a.Notes,
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
}
