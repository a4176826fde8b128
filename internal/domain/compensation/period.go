package compensation

import "time"

// Overlap checks treat an open end as unbounded.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func (p Period) endOrInfinity() time.Time {
	if p.To == nil {
		return farFuture
	}
	return *p.To
}

// Overlaps reports whether two inclusive periods intersect.
func (p Period) Overlaps(other Period) bool {
	return !p.From.After(other.endOrInfinity()) && !other.From.After(p.endOrInfinity())
}

// ValidatePeriod checks the candidate against an employee's full history.
// excludeID skips the record being edited. Returns ErrOrder for a backward or
// zero-length range, ErrOverlap if the candidate intersects any other record.
func ValidatePeriod(candidate Period, existing []Config, excludeID string) error {
	if candidate.To != nil && !candidate.To.After(candidate.From) {
		return ErrOrder
	}
	for _, record := range existing {
		if record.ID == excludeID {
			continue
		}
		if candidate.Overlaps(record.Period) {
			return ErrOverlap
		}
	}
	return nil
}

// InferDefaultStart picks the default effective-from for a new record. New
// periods chain immediately after the latest closed one so histories stay
// gap-free; with no closed record the default anchors to the start of the
// current pay cycle, so a new rate applies from a billing-cycle boundary.
func InferDefaultStart(existing []Config, cutoffDay int, today time.Time) time.Time {
	today = DateOnly(today)

	var latestEnd time.Time
	for _, record := range existing {
		if record.Period.To != nil && record.Period.To.After(latestEnd) {
			latestEnd = *record.Period.To
		}
	}
	if !latestEnd.IsZero() {
		return latestEnd.AddDate(0, 0, 1)
	}

	return cycleStart(today, cutoffDay)
}

func cycleStart(today time.Time, cutoffDay int) time.Time {
	if cutoffDay <= 0 || cutoffDay >= 28 {
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if today.Day() <= cutoffDay {
		return time.Date(today.Year(), today.Month()-1, cutoffDay+1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(today.Year(), today.Month(), cutoffDay+1, 0, 0, 0, 0, time.UTC)
}

// CycleBounds returns the inclusive start and end of the pay cycle labelled
// (year, month). Cutoff 0 or >= 28 means the calendar month; otherwise the
// cycle runs from cutoff+1 of the previous month through cutoff of the
// labelled month.
func CycleBounds(year int, month time.Month, cutoffDay int) (time.Time, time.Time) {
	if cutoffDay <= 0 || cutoffDay >= 28 {
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		return start, end
	}
	start := time.Date(year, month-1, cutoffDay+1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, cutoffDay, 0, 0, 0, 0, time.UTC)
	return start, end
}

// DateOnly truncates a timestamp to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
