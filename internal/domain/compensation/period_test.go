package compensation

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func TestValidatePeriodOrder(t *testing.T) {
	tests := []struct {
		name    string
		period  Period
		wantErr error
	}{
		{
			name:   "open ended",
			period: Period{From: date(2024, 1, 1)},
		},
		{
			name:   "one day range",
			period: Period{From: date(2024, 1, 1), To: datePtr(2024, 1, 2)},
		},
		{
			name:    "zero length",
			period:  Period{From: date(2024, 1, 1), To: datePtr(2024, 1, 1)},
			wantErr: ErrOrder,
		},
		{
			name:    "backward",
			period:  Period{From: date(2024, 2, 1), To: datePtr(2024, 1, 1)},
			wantErr: ErrOrder,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePeriod(tc.period, nil, "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidatePeriodOverlap(t *testing.T) {
	history := []Config{
		{ID: "a", Period: Period{From: date(2024, 1, 1), To: datePtr(2024, 3, 31)}},
		{ID: "b", Period: Period{From: date(2024, 4, 1)}},
	}

	tests := []struct {
		name      string
		candidate Period
		excludeID string
		wantErr   error
	}{
		{
			name:      "inside closed record",
			candidate: Period{From: date(2024, 2, 1), To: datePtr(2024, 2, 28)},
			wantErr:   ErrOverlap,
		},
		{
			name:      "touches closed record end",
			candidate: Period{From: date(2024, 3, 31), To: datePtr(2024, 5, 1)},
			wantErr:   ErrOverlap,
		},
		{
			name:      "inside open record",
			candidate: Period{From: date(2025, 1, 1), To: datePtr(2025, 2, 1)},
			wantErr:   ErrOverlap,
		},
		{
			name:      "open candidate over open record",
			candidate: Period{From: date(2030, 1, 1)},
			wantErr:   ErrOverlap,
		},
		{
			name:      "editing the open record itself",
			candidate: Period{From: date(2024, 4, 1)},
			excludeID: "b",
		},
		{
			name:      "gap before history",
			candidate: Period{From: date(2023, 1, 1), To: datePtr(2023, 12, 31)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePeriod(tc.candidate, history, tc.excludeID)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// Randomized insert property: whatever subset of random candidates gets
// accepted, the resulting history never contains two overlapping periods.
func TestValidatePeriodNeverAdmitsOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		var history []Config
		for i := 0; i < 20; i++ {
			from := date(2024, 1, 1).AddDate(0, 0, rng.Intn(400))
			candidate := Period{From: from}
			if rng.Intn(4) > 0 {
				to := from.AddDate(0, 0, 1+rng.Intn(90))
				candidate.To = &to
			}
			if ValidatePeriod(candidate, history, "") == nil {
				history = append(history, Config{ID: itoa(i), Period: candidate})
			}
		}

		for i := range history {
			for j := i + 1; j < len(history); j++ {
				if history[i].Period.Overlaps(history[j].Period) {
					t.Fatalf("trial %d admitted overlapping periods %+v and %+v",
						trial, history[i].Period, history[j].Period)
				}
			}
		}
	}
}

func itoa(n int) string {
	return string(rune('a' + n))
}

func TestInferDefaultStartChainsAfterLatestClosed(t *testing.T) {
	history := []Config{
		{Period: Period{From: date(2023, 1, 1), To: datePtr(2023, 12, 31)}},
		{Period: Period{From: date(2024, 1, 1), To: datePtr(2024, 3, 31)}},
	}

	for _, cutoffDay := range []int{0, 10, 20, 31} {
		got := InferDefaultStart(history, cutoffDay, date(2024, 6, 15))
		if !got.Equal(date(2024, 4, 1)) {
			t.Fatalf("cutoff %d: expected 2024-04-01, got %v", cutoffDay, got)
		}
	}
}

func TestInferDefaultStartCycleAnchor(t *testing.T) {
	tests := []struct {
		name      string
		cutoffDay int
		today     time.Time
		want      time.Time
	}{
		{
			name:      "before cutoff anchors to previous month",
			cutoffDay: 20,
			today:     date(2024, 5, 15),
			want:      date(2024, 4, 21),
		},
		{
			name:      "after cutoff anchors to current month",
			cutoffDay: 20,
			today:     date(2024, 5, 25),
			want:      date(2024, 5, 21),
		},
		{
			name:      "on cutoff day still previous month",
			cutoffDay: 20,
			today:     date(2024, 5, 20),
			want:      date(2024, 4, 21),
		},
		{
			name:      "end of month cutoff",
			cutoffDay: 0,
			today:     date(2024, 5, 15),
			want:      date(2024, 5, 1),
		},
		{
			name:      "cutoff 28 treated as calendar month",
			cutoffDay: 28,
			today:     date(2024, 2, 10),
			want:      date(2024, 2, 1),
		},
		{
			name:      "cutoff crossing a year boundary",
			cutoffDay: 20,
			today:     date(2024, 1, 10),
			want:      date(2023, 12, 21),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := InferDefaultStart(nil, tc.cutoffDay, tc.today)
			if !got.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestInferDefaultStartIgnoresOpenRecords(t *testing.T) {
	history := []Config{
		{Period: Period{From: date(2024, 1, 1)}},
	}
	got := InferDefaultStart(history, 20, date(2024, 5, 25))
	if !got.Equal(date(2024, 5, 21)) {
		t.Fatalf("expected cycle anchor 2024-05-21, got %v", got)
	}
}

func TestCycleBounds(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		cutoffDay int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "calendar month",
			year:      2024,
			month:     time.February,
			cutoffDay: 0,
			wantStart: date(2024, 2, 1),
			wantEnd:   date(2024, 2, 29),
		},
		{
			name:      "mid month cutoff",
			year:      2024,
			month:     time.May,
			cutoffDay: 20,
			wantStart: date(2024, 4, 21),
			wantEnd:   date(2024, 5, 20),
		},
		{
			name:      "january cycle reaches into previous year",
			year:      2024,
			month:     time.January,
			cutoffDay: 15,
			wantStart: date(2023, 12, 16),
			wantEnd:   date(2024, 1, 15),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			start, end := CycleBounds(tc.year, tc.month, tc.cutoffDay)
			if !start.Equal(tc.wantStart) || !end.Equal(tc.wantEnd) {
				t.Fatalf("expected [%v, %v], got [%v, %v]", tc.wantStart, tc.wantEnd, start, end)
			}
		})
	}
}
