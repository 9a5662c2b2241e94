package payroll

import "context"

type PayrollService interface {
	// Settings
	GetSettings(ctx context.Context) (PayrollSettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdatePayrollSettingsRequest) (PayrollSettingsResponse, error)

	// Records
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)
	GetPayrollRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	UpdatePayrollRecord(ctx context.Context, req UpdatePayrollRecordRequest) (PayrollRecordResponse, error)
	RecomputePayrollRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	FinalizePayroll(ctx context.Context, req FinalizePayrollRequest) (FinalizePayrollResponse, error)
	DeletePayrollRecord(ctx context.Context, id string) error

	// Reporting
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
	RenderPayslip(ctx context.Context, id string, format PayslipFormat) (Payslip, error)

	// Aggregate runs the attendance aggregator on caller supplied data.
	Aggregate(ctx context.Context, req AggregateRequest) (AggregateResponse, error)
}

// DraftRecomputer refreshes every draft of a period from the current attendance.
// It runs without a user context and is used by the scheduler.
type DraftRecomputer interface {
	RecomputeDrafts(ctx context.Context, period Period) (int, error)
}

// SummaryCache caches period summaries per company.
type SummaryCache interface {
	Get(ctx context.Context, companyID string, period Period) (PayrollSummaryResponse, bool)
	Set(ctx context.Context, companyID string, period Period, summary PayrollSummaryResponse)
	Invalidate(ctx context.Context, companyID string, period Period)
}
