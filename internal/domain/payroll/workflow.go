package payroll

// The period lifecycle is a closed transition table:
//
//	draft -> reviewing -> approved -> paid
//	reviewing -> draft (reject)
//
// Approve freezes the numbers for sign-off; paid is terminal and marks the
// compensation configs behind the items as permanently locked. Skipping from
// draft or reviewing straight to paid is deliberately impossible.
var transitions = map[string]map[string]bool{
	PeriodStatusDraft:     {PeriodStatusReviewing: true},
	PeriodStatusReviewing: {PeriodStatusApproved: true, PeriodStatusDraft: true},
	PeriodStatusApproved:  {PeriodStatusPaid: true},
	PeriodStatusPaid:      {},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
// Unknown states have no legal transitions.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// Transition validates a lifecycle step, returning ErrInvalidTransition for
// anything outside the table.
func Transition(from, to string) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// Editable reports whether items of a period in the given status may be
// adjusted or recalculated. Only draft periods are editable; reviewing is
// already a sign-off snapshot and approved/paid are locked.
func Editable(status string) bool {
	return status == PeriodStatusDraft
}

// Locked reports whether the period's numbers are frozen.
func Locked(status string) bool {
	return status == PeriodStatusApproved || status == PeriodStatusPaid
}
