package payroll

import "context"

// PayrollRepository defines data access methods for payroll.
// All methods include companyID parameter to prevent cross-company data access attacks.
type PayrollRepository interface {
	// Settings
	GetSettings(ctx context.Context, companyID string) (PayrollSettings, error)
	UpsertSettings(ctx context.Context, settings PayrollSettings) (PayrollSettings, error)

	// Payroll Records
	CreatePayrollRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetPayrollRecordByID(ctx context.Context, id string, companyID string) (PayrollRecord, error)
	ExistsForEmployeePeriod(ctx context.Context, companyID, employeeID string, period Period) (bool, error)
	ListPayrollRecords(ctx context.Context, companyID string, filter PayrollFilter) ([]PayrollRecord, int64, error)
	// UpdateDraftRecord rewrites the computed figures of a draft record.
	// It returns ErrPayrollRecordAlreadyPaid when the record is no longer a draft.
	UpdateDraftRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	FinalizePayrollRecords(ctx context.Context, ids []string, paidBy string, companyID string) (int64, error)
	DeletePayrollRecord(ctx context.Context, id string, companyID string) error

	// Batch
	ListDraftRecordIDs(ctx context.Context, companyID string, period Period) ([]string, error)
	ListCompanyIDsWithDrafts(ctx context.Context, period Period) ([]string, error)

	// Aggregations
	GetPayrollSummary(ctx context.Context, companyID string, period Period) (PayrollSummaryResponse, error)
}
