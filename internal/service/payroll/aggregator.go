package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

type dayTotal struct {
	hours    decimal.Decimal
	overtime decimal.Decimal
}

func (d dayTotal) worked() bool {
	return d.hours.IsPositive() || d.overtime.IsPositive()
}

// AggregateAttendance summarises one month of attendance.
//
// Entries sharing a date are summed. Totals and days worked only count dates
// inside period, but entries for the days just outside it are still used as
// Thursday/Saturday neighbours of a Friday at the month edge.
func AggregateAttendance(period payroll.Period, days []payroll.AttendanceDay, basicSalary decimal.Decimal) payroll.AttendanceSummary {
	byDate := make(map[dayKey]dayTotal, len(days))
	for _, d := range days {
		k := keyOf(d.Date)
		t := byDate[k]
		t.hours = t.hours.Add(d.Hours)
		t.overtime = t.overtime.Add(d.Overtime)
		byDate[k] = t
	}

	daysInMonth := period.DaysInMonth()
	summary := payroll.AttendanceSummary{
		DaysInMonth:      daysInMonth,
		TotalWorkedHours: decimal.Zero,
		RegularHours:     decimal.Zero,
		OvertimeHours:    decimal.Zero,
		AbsenceDeduction: decimal.Zero,
	}

	workedOn := func(t time.Time) bool {
		return byDate[keyOf(t)].worked()
	}

	start := period.Start()
	for i := 0; i < daysInMonth; i++ {
		date := start.AddDate(0, 0, i)
		t := byDate[keyOf(date)]

		summary.TotalWorkedHours = summary.TotalWorkedHours.Add(t.hours).Add(t.overtime)
		summary.OvertimeHours = summary.OvertimeHours.Add(t.overtime)

		if t.worked() {
			summary.DaysWorked++
			continue
		}
		if date.Weekday() == time.Friday {
			// Friday is the weekend unless both neighbours were missed too.
			if !workedOn(date.AddDate(0, 0, -1)) && !workedOn(date.AddDate(0, 0, 1)) {
				summary.AbsentDays++
			}
			continue
		}
		summary.AbsentDays++
	}

	summary.RegularHours = summary.TotalWorkedHours.Sub(summary.OvertimeHours)
	if summary.AbsentDays > 0 && !basicSalary.IsZero() {
		summary.AbsenceDeduction = basicSalary.
			Mul(decimal.NewFromInt(int64(summary.AbsentDays))).
			Div(decimal.NewFromInt(int64(daysInMonth))).
			Round(moneyPlaces)
	}

	return summary
}

// NetSalary is basic + allowances + overtime + bonus - absence - advance.
func NetSalary(in payroll.NetSalaryInput) decimal.Decimal {
	return in.BasicSalary.
		Add(in.Allowances).
		Add(in.OvertimeAmount).
		Add(in.BonusAmount).
		Sub(in.AbsenceDeduction).
		Sub(in.AdvanceDeduction)
}

// OvertimeAmount prices overtime hours with the company settings.
func OvertimeAmount(settings payroll.PayrollSettings, overtimeHours decimal.Decimal) decimal.Decimal {
	if !settings.OvertimeEnabled {
		return decimal.Zero
	}
	return overtimeHours.Mul(settings.OvertimeRatePerHour).Round(moneyPlaces)
}

// applySummary rewrites the attendance derived fields of record and its net
// salary. Bonus and advance are kept.
func applySummary(record *payroll.PayrollRecord, settings payroll.PayrollSettings, summary payroll.AttendanceSummary) {
	record.DaysInMonth = summary.DaysInMonth
	record.DaysWorked = summary.DaysWorked
	record.AbsentDays = summary.AbsentDays
	record.RegularHours = summary.RegularHours
	record.OvertimeHours = summary.OvertimeHours
	record.OvertimeAmount = OvertimeAmount(settings, summary.OvertimeHours)
	record.DeductionAmount = decimal.Zero
	if settings.AbsenceDeductionEnabled {
		record.DeductionAmount = summary.AbsenceDeduction
	}
	recomputeNet(record)
}

func recomputeNet(record *payroll.PayrollRecord) {
	record.TotalAllowances = record.FoodAllowance.Add(record.HousingAllowance).Add(record.TransportAllowance)
	record.NetSalary = NetSalary(payroll.NetSalaryInput{
		BasicSalary:      record.BaseSalary,
		Allowances:       record.TotalAllowances,
		OvertimeAmount:   record.OvertimeAmount,
		BonusAmount:      record.BonusAmount,
		AbsenceDeduction: record.DeductionAmount,
		AdvanceDeduction: record.AdvanceDeduction,
	})
}
