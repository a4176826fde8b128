package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate accepts a plain calendar date or a full RFC3339 timestamp.
// Empty input parses to the zero time without error.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}

// FormatDate renders a timestamp as a plain calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
