package compensation

import "errors"

var (
	ErrNotFound      = errors.New("compensation config not found")
	ErrOrder         = errors.New("effective-to must be after effective-from")
	ErrOverlap       = errors.New("effective period overlaps an existing record")
	ErrLocked        = errors.New("compensation config is referenced by finalized payroll")
	ErrNotApplicable = errors.New("compensation config cannot be applied")
)

// ValidationError reports a single malformed input field for inline display.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
