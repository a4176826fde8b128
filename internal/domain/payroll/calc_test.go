package payroll

import (
	"errors"
	"math"
	"testing"

	"payadmin/internal/domain/compensation"
)

func TestBaseSalary(t *testing.T) {
	tests := []struct {
		name       string
		salaryType string
		rate       float64
		work       WorkRecord
		want       float64
	}{
		{"monthly is flat", compensation.SalaryTypeMonthly, 300000, WorkRecord{DaysWorked: 3}, 300000},
		{"daily multiplies days", compensation.SalaryTypeDaily, 15000, WorkRecord{DaysWorked: 20}, 300000},
		{"hourly multiplies hours", compensation.SalaryTypeHourly, 2000, WorkRecord{HoursWorked: 160}, 320000},
		{"shift multiplies shifts", compensation.SalaryTypeShiftBased, 18000, WorkRecord{ShiftsWorked: 15}, 270000},
		{"no units means zero", compensation.SalaryTypeDaily, 15000, WorkRecord{}, 0},
		{"unknown type means zero", "commission", 15000, WorkRecord{DaysWorked: 20}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := BaseSalary(tc.salaryType, tc.rate, tc.work); got != tc.want {
				t.Fatalf("BaseSalary = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOvertimePay(t *testing.T) {
	tests := []struct {
		name       string
		salaryType string
		rate       float64
		minutes    int
		want       float64
	}{
		{"hourly two hours", compensation.SalaryTypeHourly, 2000, 120, 5000},
		{"hourly half hour", compensation.SalaryTypeHourly, 2000, 30, 1250},
		{"monthly uses standard hours", compensation.SalaryTypeMonthly, 174000, 60, 1250},
		{"daily uses eight hour day", compensation.SalaryTypeDaily, 16000, 60, 2500},
		{"shift uses eight hour day", compensation.SalaryTypeShiftBased, 16000, 60, 2500},
		{"zero minutes", compensation.SalaryTypeHourly, 2000, 0, 0},
		{"negative minutes", compensation.SalaryTypeHourly, 2000, -30, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := OvertimePay(tc.salaryType, tc.rate, tc.minutes); got != tc.want {
				t.Fatalf("OvertimePay = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	lines := []Line{
		{Name: "Commuting Allowance", Type: compensation.ItemTypeAllowance, Amount: 10000},
		{Name: "Housing Allowance", Type: compensation.ItemTypeAllowance, Amount: 20000},
		{Name: "Income Tax", Type: compensation.ItemTypeDeduction, Amount: 15000},
		{Name: "Social Insurance", Type: compensation.ItemTypeDeduction, Amount: 30000},
	}
	work := WorkRecord{OvertimeMinutes: 120}

	got := Compute(compensation.SalaryTypeMonthly, 348000, work, lines)

	if got.BaseSalary != 348000 {
		t.Fatalf("BaseSalary = %v, want 348000", got.BaseSalary)
	}
	// 348000 / 174 = 2000/h, two hours at 1.25x.
	if got.OvertimePay != 5000 {
		t.Fatalf("OvertimePay = %v, want 5000", got.OvertimePay)
	}
	if got.AllowanceTotal != 30000 {
		t.Fatalf("AllowanceTotal = %v, want 30000", got.AllowanceTotal)
	}
	if got.DeductionTotal != 45000 {
		t.Fatalf("DeductionTotal = %v, want 45000", got.DeductionTotal)
	}
	if got.Gross != 383000 {
		t.Fatalf("Gross = %v, want 383000", got.Gross)
	}
	if got.Net != 338000 {
		t.Fatalf("Net = %v, want 338000", got.Net)
	}
}

func TestComputeWithoutLines(t *testing.T) {
	got := Compute(compensation.SalaryTypeDaily, 15000, WorkRecord{DaysWorked: 21.5}, nil)
	if got.BaseSalary != 322500 {
		t.Fatalf("BaseSalary = %v, want 322500", got.BaseSalary)
	}
	if got.Gross != got.BaseSalary || got.Net != got.Gross {
		t.Fatalf("Gross/Net = %v/%v, want both equal to base", got.Gross, got.Net)
	}
}

func TestValidateAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		reason  string
		wantErr bool
	}{
		{"positive delta", 5000, "transport reimbursement", false},
		{"negative delta", -3000, "unpaid leave correction", false},
		{"zero delta", 0, "placeholder correction", false},
		{"blank reason", 5000, "", true},
		{"whitespace reason", 5000, "   ", true},
		{"nan amount", math.NaN(), "typo fix", true},
		{"infinite amount", math.Inf(1), "typo fix", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAdjustment(tc.amount, tc.reason)
			if tc.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("ValidateAdjustment returned %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAdjustment returned %v, want nil", err)
			}
		})
	}
}
