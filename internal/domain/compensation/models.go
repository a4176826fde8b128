package compensation

import "time"

const (
	SalaryTypeMonthly    = "monthly"
	SalaryTypeDaily      = "daily"
	SalaryTypeHourly     = "hourly"
	SalaryTypeShiftBased = "shift_based"

	// Derived record statuses. "valid" means in-range but superseded by
	// another record; it cannot occur while the overlap invariant holds and
	// is reported as a data-integrity warning when observed.
	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusUpcoming = "upcoming"
	StatusValid    = "valid"

	ItemTypeAllowance = "allowance"
	ItemTypeDeduction = "deduction"
)

// Period is an inclusive effective-date range. A nil To means the record is
// open-ended and currently in force.
type Period struct {
	From time.Time  `json:"effectiveFrom"`
	To   *time.Time `json:"effectiveTo"`
}

// Contains reports whether day falls inside the period.
func (p Period) Contains(day time.Time) bool {
	if day.Before(p.From) {
		return false
	}
	return p.To == nil || !day.After(*p.To)
}

// Closed reports whether the period has an end date.
func (p Period) Closed() bool {
	return p.To != nil
}

type Config struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	SalaryType    string     `json:"salaryType"`
	MonthlySalary *float64   `json:"monthlySalary,omitempty"`
	DailyRate     *float64   `json:"dailyRate,omitempty"`
	HourlyRate    *float64   `json:"hourlyRate,omitempty"`
	ShiftRate     *float64   `json:"shiftRate,omitempty"`
	Period        Period     `json:"period"`
	Note          string     `json:"note"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Amount returns the rate selected by the config's salary type.
func (c Config) Amount() float64 {
	var amount *float64
	switch c.SalaryType {
	case SalaryTypeMonthly:
		amount = c.MonthlySalary
	case SalaryTypeDaily:
		amount = c.DailyRate
	case SalaryTypeHourly:
		amount = c.HourlyRate
	case SalaryTypeShiftBased:
		amount = c.ShiftRate
	}
	if amount == nil {
		return 0
	}
	return *amount
}

// ConfigView is a Config enriched with the derived flags the admin surface
// renders alongside the history.
type ConfigView struct {
	Config
	Status        string `json:"status"`
	IsActive      bool   `json:"isActive"`
	UsedInPayroll bool   `json:"usedInPayroll"`
}

type ConfigInput struct {
	SalaryType    string     `json:"salaryType"`
	MonthlySalary *float64   `json:"monthlySalary"`
	DailyRate     *float64   `json:"dailyRate"`
	HourlyRate    *float64   `json:"hourlyRate"`
	ShiftRate     *float64   `json:"shiftRate"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo"`
	Note          string     `json:"note"`
}

// Assignment binds a company salary-item template to an employee with an
// amount override. One current value per (employee, template); no
// effective-dating.
type Assignment struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	TemplateID string  `json:"templateId"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
}
