package company

import (
	"time"

	"payadmin/internal/domain/compensation"
)

// Settings is the per-company payroll configuration. CutoffDay 0 means the
// pay cycle follows the calendar month.
type Settings struct {
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	CutoffDay int    `json:"cutoffDay"`
}

type Template struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"companyId"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	DefaultAmount float64   `json:"defaultAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type TemplateInput struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	DefaultAmount float64 `json:"defaultAmount"`
}

func validTemplateType(itemType string) bool {
	return itemType == compensation.ItemTypeAllowance || itemType == compensation.ItemTypeDeduction
}
