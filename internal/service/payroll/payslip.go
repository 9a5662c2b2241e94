package payroll

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/payslip.html
var templateFS embed.FS

var payslipTemplate = template.Must(template.ParseFS(templateFS, "templates/payslip.html"))

var moneyPrinter = message.NewPrinter(language.Indonesian)

// FormatMoney renders an amount as rupiah with Indonesian separators, e.g. "Rp 3.000.000,00".
func FormatMoney(d decimal.Decimal) string {
	f := d.Round(moneyPlaces).InexactFloat64()
	return moneyPrinter.Sprintf("Rp %v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

type payslipLine struct {
	Label  string
	Amount string
}

type payslipView struct {
	CompanyName    string
	CompanyAddress string
	EmployeeName   string
	EmployeeCode   string
	Position       string
	PeriodLabel    string
	Status         string
	DaysInMonth    int
	DaysWorked     int
	AbsentDays     int
	RegularHours   string
	OvertimeHours  string
	Earnings       []payslipLine
	Deductions     []payslipLine
	NetSalary      string
	Notes          string
	PaidAt         string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func newPayslipView(c company.Company, r payroll.PayrollRecord) payslipView {
	period := r.Period()
	view := payslipView{
		CompanyName:    c.Name,
		CompanyAddress: deref(c.Address),
		EmployeeName:   deref(r.EmployeeName),
		EmployeeCode:   deref(r.EmployeeCode),
		Position:       deref(r.Position),
		PeriodLabel:    fmt.Sprintf("%s %d", period.Month, period.Year),
		Status:         string(r.Status),
		DaysInMonth:    r.DaysInMonth,
		DaysWorked:     r.DaysWorked,
		AbsentDays:     r.AbsentDays,
		RegularHours:   r.RegularHours.StringFixed(2),
		OvertimeHours:  r.OvertimeHours.StringFixed(2),
		NetSalary:      FormatMoney(r.NetSalary),
		Notes:          deref(r.Notes),
	}
	if view.Position == "" {
		view.Position = "-"
	}
	if r.PaidAt != nil {
		view.PaidAt = r.PaidAt.Format(time.RFC1123)
	}

	view.Earnings = []payslipLine{
		{Label: "Base salary", Amount: FormatMoney(r.BaseSalary)},
		{Label: "Food allowance", Amount: FormatMoney(r.FoodAllowance)},
		{Label: "Housing allowance", Amount: FormatMoney(r.HousingAllowance)},
		{Label: "Transport allowance", Amount: FormatMoney(r.TransportAllowance)},
	}
	if !r.OvertimeAmount.IsZero() {
		view.Earnings = append(view.Earnings, payslipLine{Label: "Overtime", Amount: FormatMoney(r.OvertimeAmount)})
	}
	if !r.BonusAmount.IsZero() {
		view.Earnings = append(view.Earnings, payslipLine{Label: "Bonus", Amount: FormatMoney(r.BonusAmount)})
	}

	view.Deductions = []payslipLine{
		{Label: fmt.Sprintf("Absence (%d days)", r.AbsentDays), Amount: FormatMoney(r.DeductionAmount)},
	}
	if !r.AdvanceDeduction.IsZero() {
		view.Deductions = append(view.Deductions, payslipLine{Label: "Salary advance", Amount: FormatMoney(r.AdvanceDeduction)})
	}
	return view
}

// RenderPayslipHTML renders a standalone HTML payslip for r.
func RenderPayslipHTML(c company.Company, r payroll.PayrollRecord) (string, error) {
	var buf bytes.Buffer
	if err := payslipTemplate.Execute(&buf, newPayslipView(c, r)); err != nil {
		return "", fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.String(), nil
}

func payslipFilename(r payroll.PayrollRecord, format payroll.PayslipFormat) string {
	code := deref(r.EmployeeCode)
	if code == "" {
		code = r.EmployeeID
	}
	return fmt.Sprintf("payslip-%s-%s.%s", code, r.Period(), format)
}
