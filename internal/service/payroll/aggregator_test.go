package payroll

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

// fullMonth logs 8 hours on every day of period except the given days.
func fullMonth(period payroll.Period, except ...int) []payroll.AttendanceDay {
	skip := make(map[int]bool, len(except))
	for _, d := range except {
		skip[d] = true
	}
	var days []payroll.AttendanceDay
	for d := 1; d <= period.DaysInMonth(); d++ {
		if skip[d] {
			continue
		}
		days = append(days, payroll.AttendanceDay{
			Date:     date(period.Year, period.Month, d),
			Hours:    dec("8"),
			Overtime: decimal.Zero,
		})
	}
	return days
}

func TestAggregateAttendance_AbsentTuesday(t *testing.T) {
	period := payroll.NewPeriod(2025, 6)
	require.Equal(t, time.Tuesday, date(2025, time.June, 10).Weekday())

	summary := AggregateAttendance(period, fullMonth(period, 10), dec("3000000"))

	assert.Equal(t, 30, summary.DaysInMonth)
	assert.Equal(t, 29, summary.DaysWorked)
	assert.Equal(t, 1, summary.AbsentDays)
	assertDecimal(t, "100000", summary.AbsenceDeduction)
	assertDecimal(t, "232", summary.TotalWorkedHours)
	assertDecimal(t, "232", summary.RegularHours)
	assertDecimal(t, "0", summary.OvertimeHours)
}

func TestAggregateAttendance_FridayBetweenWorkedDaysIsNotAbsent(t *testing.T) {
	period := payroll.NewPeriod(2025, 9)
	require.Equal(t, time.Friday, date(2025, time.September, 12).Weekday())

	summary := AggregateAttendance(period, fullMonth(period, 12), dec("3000000"))

	assert.Equal(t, 29, summary.DaysWorked)
	assert.Equal(t, 0, summary.AbsentDays)
	assertDecimal(t, "0", summary.AbsenceDeduction)
}

func TestAggregateAttendance_FridayRule(t *testing.T) {
	period := payroll.NewPeriod(2025, 9)

	tests := []struct {
		name         string
		missing      []int
		expectAbsent int
	}{
		{name: "thursday friday saturday all missed", missing: []int{11, 12, 13}, expectAbsent: 3},
		{name: "only thursday worked", missing: []int{12, 13}, expectAbsent: 1},
		{name: "only saturday worked", missing: []int{11, 12}, expectAbsent: 1},
		{name: "friday worked, neighbours missed", missing: []int{11, 13}, expectAbsent: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := AggregateAttendance(period, fullMonth(period, tt.missing...), dec("3000000"))
			assert.Equal(t, tt.expectAbsent, summary.AbsentDays)
		})
	}
}

func TestAggregateAttendance_FridayNeighbourOutsideMonth(t *testing.T) {
	t.Run("last day friday, next saturday worked", func(t *testing.T) {
		period := payroll.NewPeriod(2025, 10)
		require.Equal(t, time.Friday, date(2025, time.October, 31).Weekday())

		days := append(fullMonth(period, 30, 31), payroll.AttendanceDay{
			Date:  date(2025, time.November, 1),
			Hours: dec("8"),
		})
		summary := AggregateAttendance(period, days, dec("3100000"))

		// Thursday the 30th is absent, Friday the 31st is covered by Saturday.
		assert.Equal(t, 1, summary.AbsentDays)
		assert.Equal(t, 29, summary.DaysWorked)
		assertDecimal(t, "232", summary.TotalWorkedHours)
	})

	t.Run("first day friday, previous thursday worked", func(t *testing.T) {
		period := payroll.NewPeriod(2025, 8)
		require.Equal(t, time.Friday, date(2025, time.August, 1).Weekday())

		days := append(fullMonth(period, 1, 2), payroll.AttendanceDay{
			Date:  date(2025, time.July, 31),
			Hours: dec("8"),
		})
		summary := AggregateAttendance(period, days, dec("3100000"))

		assert.Equal(t, 1, summary.AbsentDays)
		assert.Equal(t, 29, summary.DaysWorked)
	})

	t.Run("no neighbours supplied", func(t *testing.T) {
		period := payroll.NewPeriod(2025, 10)
		summary := AggregateAttendance(period, fullMonth(period, 30, 31), dec("3100000"))
		assert.Equal(t, 2, summary.AbsentDays)
	})
}

func TestAggregateAttendance_MergesDuplicateDates(t *testing.T) {
	period := payroll.NewPeriod(2025, 6)
	days := append(fullMonth(period, 3),
		payroll.AttendanceDay{Date: date(2025, time.June, 3), Hours: dec("4"), Overtime: decimal.Zero},
		payroll.AttendanceDay{Date: date(2025, time.June, 3), Hours: dec("3"), Overtime: dec("1.5")},
	)

	summary := AggregateAttendance(period, days, dec("3000000"))

	assert.Equal(t, 30, summary.DaysWorked)
	assert.Equal(t, 0, summary.AbsentDays)
	assertDecimal(t, "240.5", summary.TotalWorkedHours)
	assertDecimal(t, "1.5", summary.OvertimeHours)
	assertDecimal(t, "239", summary.RegularHours)
}

func TestAggregateAttendance_OvertimeOnlyCountsAsWorked(t *testing.T) {
	period := payroll.NewPeriod(2025, 6)
	days := append(fullMonth(period, 10), payroll.AttendanceDay{
		Date:     date(2025, time.June, 10),
		Hours:    decimal.Zero,
		Overtime: dec("2"),
	})

	summary := AggregateAttendance(period, days, dec("3000000"))

	assert.Equal(t, 30, summary.DaysWorked)
	assert.Equal(t, 0, summary.AbsentDays)
	assertDecimal(t, "2", summary.OvertimeHours)
}

func TestAggregateAttendance_EmptyMonth(t *testing.T) {
	period := payroll.NewPeriod(2024, 2)

	summary := AggregateAttendance(period, nil, dec("2900000"))

	assert.Equal(t, 29, summary.DaysInMonth)
	assert.Equal(t, 0, summary.DaysWorked)
	assert.Equal(t, 29, summary.AbsentDays)
	assertDecimal(t, "2900000", summary.AbsenceDeduction)
	assertDecimal(t, "0", summary.TotalWorkedHours)
}

func TestAggregateAttendance_DeductionRoundedToCents(t *testing.T) {
	period := payroll.NewPeriod(2025, 1)
	require.Equal(t, time.Wednesday, date(2025, time.January, 15).Weekday())

	summary := AggregateAttendance(period, fullMonth(period, 15), dec("1000"))

	assert.Equal(t, 1, summary.AbsentDays)
	assertDecimal(t, "32.26", summary.AbsenceDeduction)
}

func TestAggregateAttendance_EntriesOutsidePeriodIgnoredInTotals(t *testing.T) {
	period := payroll.NewPeriod(2025, 6)
	days := append(fullMonth(period),
		payroll.AttendanceDay{Date: date(2025, time.May, 31), Hours: dec("8")},
		payroll.AttendanceDay{Date: date(2025, time.July, 1), Hours: dec("8"), Overtime: dec("3")},
	)

	summary := AggregateAttendance(period, days, dec("3000000"))

	assert.Equal(t, 30, summary.DaysWorked)
	assertDecimal(t, "240", summary.TotalWorkedHours)
	assertDecimal(t, "0", summary.OvertimeHours)
}

func TestAggregateAttendance_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for year := 2024; year <= 2025; year++ {
		for month := 1; month <= 12; month++ {
			period := payroll.NewPeriod(year, month)
			var days []payroll.AttendanceDay
			for d := -1; d <= period.DaysInMonth()+1; d++ {
				if rng.IntN(3) == 0 {
					continue
				}
				days = append(days, payroll.AttendanceDay{
					Date:     period.Start().AddDate(0, 0, d-1),
					Hours:    decimal.NewFromInt(int64(rng.IntN(9))),
					Overtime: decimal.NewFromInt(int64(rng.IntN(3))),
				})
			}

			first := AggregateAttendance(period, days, dec("5000000"))
			second := AggregateAttendance(period, days, dec("5000000"))

			assert.LessOrEqual(t, first.DaysWorked+first.AbsentDays, first.DaysInMonth, period.String())
			assert.True(t, first.RegularHours.Add(first.OvertimeHours).Equal(first.TotalWorkedHours), period.String())
			assert.True(t, first.AbsenceDeduction.LessThanOrEqual(dec("5000000")), period.String())
			assert.Equal(t, first.DaysWorked, second.DaysWorked)
			assert.Equal(t, first.AbsentDays, second.AbsentDays)
			assert.True(t, first.AbsenceDeduction.Equal(second.AbsenceDeduction))
		}
	}
}

func TestNetSalary(t *testing.T) {
	net := NetSalary(payroll.NetSalaryInput{
		BasicSalary:      dec("3000000"),
		Allowances:       dec("750000"),
		OvertimeAmount:   dec("120000"),
		BonusAmount:      dec("250000"),
		AbsenceDeduction: dec("100000"),
		AdvanceDeduction: dec("500000"),
	})

	assertDecimal(t, "3520000", net)
}

func TestOvertimeAmount(t *testing.T) {
	settings := payroll.DefaultSettings("c1")
	settings.OvertimeRatePerHour = dec("25000")

	assertDecimal(t, "62500", OvertimeAmount(settings, dec("2.5")))

	settings.OvertimeEnabled = false
	assertDecimal(t, "0", OvertimeAmount(settings, dec("2.5")))
}

func TestApplySummary_PreservesManualInputs(t *testing.T) {
	settings := payroll.DefaultSettings("c1")
	settings.OvertimeRatePerHour = dec("10000")

	record := payroll.PayrollRecord{
		BaseSalary:         dec("3000000"),
		FoodAllowance:      dec("300000"),
		HousingAllowance:   dec("400000"),
		TransportAllowance: dec("50000"),
		BonusAmount:        dec("200000"),
		AdvanceDeduction:   dec("100000"),
	}
	summary := payroll.AttendanceSummary{
		DaysInMonth:      30,
		DaysWorked:       29,
		AbsentDays:       1,
		TotalWorkedHours: dec("236"),
		RegularHours:     dec("232"),
		OvertimeHours:    dec("4"),
		AbsenceDeduction: dec("100000"),
	}

	applySummary(&record, settings, summary)

	assertDecimal(t, "750000", record.TotalAllowances)
	assertDecimal(t, "40000", record.OvertimeAmount)
	assertDecimal(t, "100000", record.DeductionAmount)
	assertDecimal(t, "200000", record.BonusAmount)
	assertDecimal(t, "3790000", record.NetSalary)

	settings.AbsenceDeductionEnabled = false
	applySummary(&record, settings, summary)
	assertDecimal(t, "0", record.DeductionAmount)
	assertDecimal(t, "3890000", record.NetSalary)
}
