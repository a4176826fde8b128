package compensation

import (
	"errors"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestResolveActive(t *testing.T) {
	history := []Config{
		{ID: "old", Period: Period{From: date(2023, 1, 1), To: datePtr(2023, 12, 31)}},
		{ID: "current", Period: Period{From: date(2024, 1, 1)}},
	}

	tests := []struct {
		name   string
		asOf   time.Time
		wantID string
	}{
		{name: "inside closed record", asOf: date(2023, 6, 1), wantID: "old"},
		{name: "closed record end day", asOf: date(2023, 12, 31), wantID: "old"},
		{name: "open record start day", asOf: date(2024, 1, 1), wantID: "current"},
		{name: "far future open record", asOf: date(2030, 1, 1), wantID: "current"},
		{name: "before history", asOf: date(2022, 1, 1), wantID: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveActive(history, tc.asOf)
			if tc.wantID == "" {
				if got != nil {
					t.Fatalf("expected no match, got %q", got.ID)
				}
				return
			}
			if got == nil || got.ID != tc.wantID {
				t.Fatalf("expected %q, got %+v", tc.wantID, got)
			}
		})
	}
}

func TestResolveActiveReturnsAtMostOne(t *testing.T) {
	history := []Config{
		{ID: "a", Period: Period{From: date(2024, 1, 1), To: datePtr(2024, 1, 31)}},
		{ID: "b", Period: Period{From: date(2024, 2, 1), To: datePtr(2024, 2, 29)}},
		{ID: "c", Period: Period{From: date(2024, 3, 1)}},
	}

	for day := date(2023, 12, 1); day.Before(date(2024, 6, 1)); day = day.AddDate(0, 0, 1) {
		matches := 0
		for _, cfg := range history {
			if cfg.Period.Contains(day) {
				matches++
			}
		}
		if matches > 1 {
			t.Fatalf("history contains %d matches on %v", matches, day)
		}
		got := ResolveActive(history, day)
		if matches == 0 && got != nil {
			t.Fatalf("expected no match on %v, got %q", day, got.ID)
		}
		if matches == 1 && got == nil {
			t.Fatalf("expected a match on %v", day)
		}
	}
}

func TestStatus(t *testing.T) {
	today := date(2024, 6, 15)
	expired := Config{ID: "expired", Period: Period{From: date(2023, 1, 1), To: datePtr(2023, 12, 31)}}
	active := Config{ID: "active", Period: Period{From: date(2024, 1, 1)}}
	upcoming := Config{ID: "upcoming", Period: Period{From: date(2025, 1, 1), To: datePtr(2025, 12, 31)}}
	history := []Config{expired, active, upcoming}

	if got := Status(expired, history, today); got != StatusExpired {
		t.Fatalf("expected expired, got %q", got)
	}
	if got := Status(active, history, today); got != StatusActive {
		t.Fatalf("expected active, got %q", got)
	}
	if got := Status(upcoming, history, today); got != StatusUpcoming {
		t.Fatalf("expected upcoming, got %q", got)
	}
}

func TestStatusSupersededIsValid(t *testing.T) {
	// Two in-range records can only happen on inconsistent data; the earlier
	// one wins resolution and the other reads as "valid".
	today := date(2024, 6, 15)
	first := Config{ID: "first", Period: Period{From: date(2024, 1, 1)}}
	second := Config{ID: "second", Period: Period{From: date(2024, 2, 1)}}
	history := []Config{first, second}

	if got := Status(first, history, today); got != StatusActive {
		t.Fatalf("expected active, got %q", got)
	}
	if got := Status(second, history, today); got != StatusValid {
		t.Fatalf("expected valid, got %q", got)
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		input   ConfigInput
		wantErr bool
	}{
		{
			name: "monthly with monthly salary",
			input: ConfigInput{
				SalaryType:    SalaryTypeMonthly,
				MonthlySalary: floatPtr(300000),
				EffectiveFrom: date(2024, 1, 1),
			},
		},
		{
			name: "hourly with hourly rate",
			input: ConfigInput{
				SalaryType:    SalaryTypeHourly,
				HourlyRate:    floatPtr(1500),
				EffectiveFrom: date(2024, 1, 1),
			},
		},
		{
			name: "missing amount for type",
			input: ConfigInput{
				SalaryType:    SalaryTypeDaily,
				MonthlySalary: floatPtr(300000),
				EffectiveFrom: date(2024, 1, 1),
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			input: ConfigInput{
				SalaryType:    SalaryTypeMonthly,
				MonthlySalary: floatPtr(0),
				EffectiveFrom: date(2024, 1, 1),
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			input: ConfigInput{
				SalaryType:    SalaryTypeShiftBased,
				ShiftRate:     floatPtr(-100),
				EffectiveFrom: date(2024, 1, 1),
			},
			wantErr: true,
		},
		{
			name: "two amounts set",
			input: ConfigInput{
				SalaryType:    SalaryTypeMonthly,
				MonthlySalary: floatPtr(300000),
				HourlyRate:    floatPtr(1500),
				EffectiveFrom: date(2024, 1, 1),
			},
			wantErr: true,
		},
		{
			name: "unknown salary type",
			input: ConfigInput{
				SalaryType:    "weekly",
				EffectiveFrom: date(2024, 1, 1),
			},
			wantErr: true,
		},
		{
			name: "missing effective from",
			input: ConfigInput{
				SalaryType:    SalaryTypeMonthly,
				MonthlySalary: floatPtr(300000),
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateInput(tc.input)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
			if tc.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestConfigAmountSelectsByType(t *testing.T) {
	cfg := Config{SalaryType: SalaryTypeMonthly, MonthlySalary: floatPtr(300000)}
	if got := cfg.Amount(); got != 300000 {
		t.Fatalf("expected 300000, got %v", got)
	}
	if cfg.DailyRate != nil || cfg.HourlyRate != nil || cfg.ShiftRate != nil {
		t.Fatal("expected unrelated rates to stay unset")
	}
}
