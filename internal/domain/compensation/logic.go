package compensation

import (
	"strings"
	"time"
)

// ResolveActive returns the record whose period contains asOf, or nil. With
// the overlap invariant enforced on every write at most one record can match;
// the earliest-from match is returned if the data is ever inconsistent.
func ResolveActive(history []Config, asOf time.Time) *Config {
	asOf = DateOnly(asOf)
	var match *Config
	for i := range history {
		if !history[i].Period.Contains(asOf) {
			continue
		}
		if match == nil || history[i].Period.From.Before(match.Period.From) {
			match = &history[i]
		}
	}
	return match
}

// Status derives the display status of one record against the full history.
func Status(cfg Config, history []Config, today time.Time) string {
	today = DateOnly(today)
	if cfg.Period.To != nil && cfg.Period.To.Before(today) {
		return StatusExpired
	}
	if cfg.Period.From.After(today) {
		return StatusUpcoming
	}
	if active := ResolveActive(history, today); active != nil && active.ID == cfg.ID {
		return StatusActive
	}
	return StatusValid
}

// ValidateInput checks the salary-type/amount pairing: exactly the amount
// selected by the type must be set and positive.
func ValidateInput(input ConfigInput) error {
	selected := map[string]*float64{
		SalaryTypeMonthly:    input.MonthlySalary,
		SalaryTypeDaily:      input.DailyRate,
		SalaryTypeHourly:     input.HourlyRate,
		SalaryTypeShiftBased: input.ShiftRate,
	}

	amount, ok := selected[strings.TrimSpace(input.SalaryType)]
	if !ok {
		return &ValidationError{Field: "salaryType", Reason: "must be one of monthly, daily, hourly, shift_based"}
	}
	if amount == nil || *amount <= 0 {
		return &ValidationError{Field: amountField(input.SalaryType), Reason: "must be a positive amount"}
	}
	for salaryType, value := range selected {
		if salaryType != input.SalaryType && value != nil {
			return &ValidationError{Field: amountField(salaryType), Reason: "must not be set for salary type " + input.SalaryType}
		}
	}
	if input.EffectiveFrom.IsZero() {
		return &ValidationError{Field: "effectiveFrom", Reason: "is required"}
	}
	return nil
}

func amountField(salaryType string) string {
	switch salaryType {
	case SalaryTypeMonthly:
		return "monthlySalary"
	case SalaryTypeDaily:
		return "dailyRate"
	case SalaryTypeHourly:
		return "hourlyRate"
	case SalaryTypeShiftBased:
		return "shiftRate"
	}
	return "salaryType"
}
