package payroll

import (
	"math"
	"strings"

	"payadmin/internal/domain/compensation"
)

// Breakdown is the computed part of an item before persistence.
type Breakdown struct {
	BaseSalary     float64
	OvertimePay    float64
	AllowanceTotal float64
	DeductionTotal float64
	Gross          float64
	Net            float64
}

// BaseSalary prices the period for one employee: monthly salaries are flat,
// the other types multiply the rate by units worked.
func BaseSalary(salaryType string, rate float64, work WorkRecord) float64 {
	switch salaryType {
	case compensation.SalaryTypeMonthly:
		return rate
	case compensation.SalaryTypeDaily:
		return rate * work.DaysWorked
	case compensation.SalaryTypeHourly:
		return rate * work.HoursWorked
	case compensation.SalaryTypeShiftBased:
		return rate * work.ShiftsWorked
	}
	return 0
}

func hourlyEquivalent(salaryType string, rate float64) float64 {
	switch salaryType {
	case compensation.SalaryTypeMonthly:
		return rate / StandardMonthlyHours
	case compensation.SalaryTypeDaily, compensation.SalaryTypeShiftBased:
		return rate / StandardDayHours
	case compensation.SalaryTypeHourly:
		return rate
	}
	return 0
}

// OvertimePay converts overtime minutes to pay at the hourly-equivalent rate
// times the overtime multiplier.
func OvertimePay(salaryType string, rate float64, overtimeMinutes int) float64 {
	if overtimeMinutes <= 0 {
		return 0
	}
	hours := float64(overtimeMinutes) / 60
	return round2(hours * hourlyEquivalent(salaryType, rate) * OvertimeMultiplier)
}

// Compute produces the full breakdown for one employee from the active
// compensation rate, the period work record and the assigned salary items.
func Compute(salaryType string, rate float64, work WorkRecord, lines []Line) Breakdown {
	var breakdown Breakdown
	breakdown.BaseSalary = round2(BaseSalary(salaryType, rate, work))
	breakdown.OvertimePay = OvertimePay(salaryType, rate, work.OvertimeMinutes)
	for _, line := range lines {
		switch line.Type {
		case compensation.ItemTypeAllowance:
			breakdown.AllowanceTotal += line.Amount
		case compensation.ItemTypeDeduction:
			breakdown.DeductionTotal += line.Amount
		}
	}
	breakdown.Gross = round2(breakdown.BaseSalary + breakdown.OvertimePay + breakdown.AllowanceTotal)
	breakdown.Net = round2(breakdown.Gross - breakdown.DeductionTotal)
	return breakdown
}

// ValidateAdjustment checks an adjustment delta: the reason is mandatory and
// the amount must be a finite number. Negative deltas are allowed.
func ValidateAdjustment(amount float64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Reason: "is required"}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return &ValidationError{Field: "amount", Reason: "must be a finite number"}
	}
	return nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
