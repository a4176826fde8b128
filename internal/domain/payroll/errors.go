package payroll

import "errors"

var (
	ErrPeriodNotFound    = errors.New("payroll period not found")
	ErrItemNotFound      = errors.New("payroll item not found")
	ErrPeriodExists      = errors.New("payroll period already exists for this month")
	ErrInvalidTransition = errors.New("illegal payroll period transition")
	ErrPeriodLocked      = errors.New("payroll period is locked for editing")
	ErrNoItems           = errors.New("payroll period has no payroll items")
)

// ValidationError reports a single malformed input field for inline display.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
