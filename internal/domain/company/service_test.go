package company

import (
	"errors"
	"testing"

	"payadmin/internal/domain/compensation"
)

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		field    string
	}{
		{"calendar month cutoff", Settings{Name: "Acme", CutoffDay: 0}, ""},
		{"mid month cutoff", Settings{Name: "Acme", CutoffDay: 20}, ""},
		{"last day cutoff", Settings{Name: "Acme", CutoffDay: 31}, ""},
		{"negative cutoff", Settings{Name: "Acme", CutoffDay: -1}, "cutoffDay"},
		{"cutoff past 31", Settings{Name: "Acme", CutoffDay: 32}, "cutoffDay"},
		{"blank name", Settings{Name: "  ", CutoffDay: 0}, "name"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSettings(tc.settings)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("ValidateSettings returned %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateSettings returned %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("ValidationError field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name  string
		input TemplateInput
		field string
	}{
		{"allowance", TemplateInput{Name: "Housing Allowance", Type: compensation.ItemTypeAllowance, DefaultAmount: 20000}, ""},
		{"deduction", TemplateInput{Name: "Income Tax", Type: compensation.ItemTypeDeduction}, ""},
		{"blank name", TemplateInput{Name: "", Type: compensation.ItemTypeAllowance}, "name"},
		{"bad type", TemplateInput{Name: "Bonus", Type: "bonus"}, "type"},
		{"negative default", TemplateInput{Name: "Bonus", Type: compensation.ItemTypeAllowance, DefaultAmount: -1}, "defaultAmount"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTemplate(tc.input)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("ValidateTemplate returned %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateTemplate returned %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("ValidationError field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}
