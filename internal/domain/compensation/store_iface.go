package compensation

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListConfigs(ctx context.Context, employeeID string) ([]Config, error)
	GetConfig(ctx context.Context, id string) (Config, error)
	InsertConfig(ctx context.Context, employeeID string, input ConfigInput) (string, error)
	UpdateConfig(ctx context.Context, id string, input ConfigInput) error
	DeleteConfig(ctx context.Context, id string) error
	UsedInPayroll(ctx context.Context, configID string) (bool, error)
	PromoteConfig(ctx context.Context, id, closeID string, from time.Time) error
	EmployeeCompanyID(ctx context.Context, employeeID string) (string, error)
	CompanyCutoffDay(ctx context.Context, companyID string) (int, error)
	ListAssignments(ctx context.Context, employeeID string) ([]Assignment, error)
	TemplateType(ctx context.Context, templateID string) (string, float64, error)
	UpsertAssignment(ctx context.Context, employeeID, templateID, itemType string, amount float64) (string, error)
	DeleteAssignment(ctx context.Context, employeeID, templateID string) error
}
