package payroll

const (
	PeriodStatusDraft     = "draft"
	PeriodStatusReviewing = "reviewing"
	PeriodStatusApproved  = "approved"
	PeriodStatusPaid      = "paid"

	ItemStatusCalculated = "calculated"
	ItemStatusAdjusted   = "adjusted"
	ItemStatusConfirmed  = "confirmed"

	// Overtime is paid at the hourly-equivalent rate times this multiplier.
	OvertimeMultiplier = 1.25

	// Hourly-equivalent conversion for monthly salaries (174h) and for
	// daily/shift rates (8h days).
	StandardMonthlyHours = 174.0
	StandardDayHours     = 8.0
)
