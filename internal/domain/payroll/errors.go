package payroll

import "errors"

var (
	ErrPayrollSettingsNotFound    = errors.New("payroll settings not found")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordAlreadyPaid   = errors.New("payroll record already paid, cannot modify")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrEmployeeHasNoBaseSalary    = errors.New("employee has no base salary configured")
	ErrCannotDeletePaidRecord     = errors.New("cannot delete paid payroll record")
	ErrEmployeeNotFound           = errors.New("employee not found")
	ErrInvalidPayslipFormat       = errors.New("payslip format must be html or pdf")
	ErrPDFRendererUnavailable     = errors.New("pdf rendering is not configured")
)
