package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	CompanyCutoffDay(ctx context.Context, companyID string) (int, error)
	PeriodExists(ctx context.Context, companyID string, year, month int) (bool, error)
	CreatePeriod(ctx context.Context, companyID string, year, month int, start, end time.Time) (string, error)
	GetPeriod(ctx context.Context, id string) (Period, error)
	CountPeriods(ctx context.Context, companyID string) (int, error)
	ListPeriods(ctx context.Context, companyID string, limit, offset int) ([]Period, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
	MarkRejected(ctx context.Context, id, reason string) error
	MarkApproved(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id, paymentReference string) error
	RefreshTotals(ctx context.Context, periodID string) error
	Summary(ctx context.Context, periodID string) (Summary, error)
	CountItems(ctx context.Context, periodID string) (int, error)
	ListItems(ctx context.Context, periodID string) ([]Item, error)
	GetItem(ctx context.Context, itemID string) (Item, error)
	InsertItem(ctx context.Context, item Item) error
	DeleteItemsForPeriod(ctx context.Context, periodID string) error
	ApplyAdjustment(ctx context.Context, itemID string, amount float64, reason string) error
	ListActiveEmployees(ctx context.Context, companyID string) ([]EmployeeRef, error)
	WorkRecords(ctx context.Context, periodID string) (map[string]WorkRecord, error)
	UpsertWorkRecord(ctx context.Context, periodID string, record WorkRecord) error
	ActiveRateFor(ctx context.Context, employeeID string, asOf time.Time) (*ActiveRate, error)
	AssignmentLines(ctx context.Context, employeeID string) ([]Line, error)
	RegisterRows(ctx context.Context, periodID string) ([]RegisterRow, error)
}
