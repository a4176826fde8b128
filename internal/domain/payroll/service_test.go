package payroll

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"payadmin/internal/domain/compensation"
)

// fakeStore keeps periods and items in memory so workflow rules can be
// exercised without a database.
type fakeStore struct {
	cutoffDay int
	periods   []Period
	items     []Item
	employees []EmployeeRef
	rates     map[string]ActiveRate
	work      map[string]WorkRecord
	lines     map[string][]Line
	nextID    int
}

func newPayrollFake() *fakeStore {
	return &fakeStore{
		rates: map[string]ActiveRate{},
		work:  map[string]WorkRecord{},
		lines: map[string][]Line{},
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return prefix + "-" + strconv.Itoa(f.nextID)
}

func (f *fakeStore) period(id string) *Period {
	for i := range f.periods {
		if f.periods[i].ID == id {
			return &f.periods[i]
		}
	}
	return nil
}

func (f *fakeStore) CompanyCutoffDay(context.Context, string) (int, error) {
	return f.cutoffDay, nil
}

func (f *fakeStore) PeriodExists(_ context.Context, companyID string, year, month int) (bool, error) {
	for _, p := range f.periods {
		if p.CompanyID == companyID && p.Year == year && p.Month == month {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreatePeriod(_ context.Context, companyID string, year, month int, start, end time.Time) (string, error) {
	id := f.id("per")
	f.periods = append(f.periods, Period{
		ID: id, CompanyID: companyID, Year: year, Month: month,
		PeriodStart: start, PeriodEnd: end, Status: PeriodStatusDraft,
	})
	return id, nil
}

func (f *fakeStore) GetPeriod(_ context.Context, id string) (Period, error) {
	if p := f.period(id); p != nil {
		return *p, nil
	}
	return Period{}, ErrPeriodNotFound
}

func (f *fakeStore) CountPeriods(_ context.Context, companyID string) (int, error) {
	count := 0
	for _, p := range f.periods {
		if p.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListPeriods(_ context.Context, companyID string, _, _ int) ([]Period, error) {
	var out []Period
	for _, p := range f.periods {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id, from, to string) error {
	p := f.period(id)
	if p == nil || p.Status != from {
		return ErrInvalidTransition
	}
	p.Status = to
	return nil
}

func (f *fakeStore) MarkRejected(_ context.Context, id, reason string) error {
	p := f.period(id)
	if p == nil || p.Status != PeriodStatusReviewing {
		return ErrInvalidTransition
	}
	p.Status = PeriodStatusDraft
	p.RejectReason = reason
	return nil
}

func (f *fakeStore) MarkApproved(_ context.Context, id string) error {
	p := f.period(id)
	if p == nil || p.Status != PeriodStatusReviewing {
		return ErrInvalidTransition
	}
	p.Status = PeriodStatusApproved
	now := time.Now()
	p.ApprovedAt = &now
	for i := range f.items {
		if f.items[i].PeriodID == id {
			f.items[i].Status = ItemStatusConfirmed
		}
	}
	return nil
}

func (f *fakeStore) MarkPaid(_ context.Context, id, paymentReference string) error {
	p := f.period(id)
	if p == nil || p.Status != PeriodStatusApproved {
		return ErrInvalidTransition
	}
	p.Status = PeriodStatusPaid
	p.PaymentReference = paymentReference
	now := time.Now()
	p.PaidAt = &now
	return nil
}

func (f *fakeStore) RefreshTotals(_ context.Context, periodID string) error {
	p := f.period(periodID)
	if p == nil {
		return ErrPeriodNotFound
	}
	p.TotalGross, p.TotalNet, p.TotalOvertimePay = 0, 0, 0
	for _, item := range f.items {
		if item.PeriodID == periodID {
			p.TotalGross += item.Gross
			p.TotalNet += item.Net
			p.TotalOvertimePay += item.OvertimePay
		}
	}
	return nil
}

func (f *fakeStore) Summary(_ context.Context, periodID string) (Summary, error) {
	var summary Summary
	for _, item := range f.items {
		if item.PeriodID != periodID {
			continue
		}
		summary.TotalGross += item.Gross
		summary.TotalNet += item.Net
		summary.TotalOvertimePay += item.OvertimePay
		summary.EmployeeCount++
		if item.AdjustmentReason != "" {
			summary.AdjustedCount++
		}
	}
	return summary, nil
}

func (f *fakeStore) CountItems(_ context.Context, periodID string) (int, error) {
	count := 0
	for _, item := range f.items {
		if item.PeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListItems(_ context.Context, periodID string) ([]Item, error) {
	var out []Item
	for _, item := range f.items {
		if item.PeriodID == periodID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) GetItem(_ context.Context, itemID string) (Item, error) {
	for _, item := range f.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return Item{}, ErrItemNotFound
}

func (f *fakeStore) InsertItem(_ context.Context, item Item) error {
	item.ID = f.id("item")
	item.Status = ItemStatusCalculated
	f.items = append(f.items, item)
	return nil
}

func (f *fakeStore) DeleteItemsForPeriod(_ context.Context, periodID string) error {
	kept := f.items[:0]
	for _, item := range f.items {
		if item.PeriodID != periodID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeStore) ApplyAdjustment(_ context.Context, itemID string, amount float64, reason string) error {
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].Net += amount
			f.items[i].AdjustmentAmount += amount
			f.items[i].AdjustmentReason = reason
			f.items[i].Status = ItemStatusAdjusted
			return nil
		}
	}
	return ErrItemNotFound
}

func (f *fakeStore) ListActiveEmployees(context.Context, string) ([]EmployeeRef, error) {
	return f.employees, nil
}

func (f *fakeStore) WorkRecords(context.Context, string) (map[string]WorkRecord, error) {
	return f.work, nil
}

func (f *fakeStore) UpsertWorkRecord(_ context.Context, _ string, record WorkRecord) error {
	f.work[record.EmployeeID] = record
	return nil
}

func (f *fakeStore) ActiveRateFor(_ context.Context, employeeID string, _ time.Time) (*ActiveRate, error) {
	if rate, ok := f.rates[employeeID]; ok {
		return &rate, nil
	}
	return nil, nil
}

func (f *fakeStore) AssignmentLines(_ context.Context, employeeID string) ([]Line, error) {
	return f.lines[employeeID], nil
}

func (f *fakeStore) RegisterRows(context.Context, string) ([]RegisterRow, error) {
	return nil, nil
}

func seedDraftPeriod(f *fakeStore, nets ...float64) string {
	periodID := f.id("per")
	f.periods = append(f.periods, Period{
		ID: periodID, CompanyID: "co-1", Year: 2026, Month: 3, Status: PeriodStatusDraft,
	})
	for _, net := range nets {
		f.items = append(f.items, Item{
			ID: f.id("item"), PeriodID: periodID, EmployeeID: f.id("emp"),
			Gross: net, Net: net, Status: ItemStatusCalculated,
		})
	}
	_ = f.RefreshTotals(context.Background(), periodID)
	return periodID
}

func TestAdjustFoldsDeltaAndRefreshesTotals(t *testing.T) {
	store := newPayrollFake()
	periodID := seedDraftPeriod(store, 300000, 250000)
	itemID := store.items[0].ID
	service := NewService(store)

	item, err := service.Adjust(context.Background(), itemID, 5000, "transport reimbursement")
	if err != nil {
		t.Fatalf("Adjust returned %v", err)
	}
	if item.Net != 305000 || item.AdjustmentAmount != 5000 {
		t.Fatalf("net/adjustment = %v/%v, want 305000/5000", item.Net, item.AdjustmentAmount)
	}
	if item.Status != ItemStatusAdjusted {
		t.Fatalf("item status = %q, want adjusted", item.Status)
	}

	// Second delta folds in, including a negative one.
	item, err = service.Adjust(context.Background(), itemID, -2000, "overpayment correction")
	if err != nil {
		t.Fatalf("Adjust returned %v", err)
	}
	if item.Net != 303000 || item.AdjustmentAmount != 3000 {
		t.Fatalf("net/adjustment = %v/%v, want 303000/3000", item.Net, item.AdjustmentAmount)
	}

	period, err := service.GetPeriod(context.Background(), periodID)
	if err != nil {
		t.Fatalf("GetPeriod: %v", err)
	}
	items, _ := service.ListItems(context.Background(), periodID)
	var sum float64
	for _, it := range items {
		sum += it.Net
	}
	if period.TotalNet != sum {
		t.Fatalf("period total net = %v, item sum = %v, want equal", period.TotalNet, sum)
	}
	if period.TotalNet != 553000 {
		t.Fatalf("period total net = %v, want 553000", period.TotalNet)
	}
}

func TestAdjustRejectedOutsideDraft(t *testing.T) {
	for _, status := range []string{PeriodStatusReviewing, PeriodStatusApproved, PeriodStatusPaid} {
		t.Run(status, func(t *testing.T) {
			store := newPayrollFake()
			periodID := seedDraftPeriod(store, 300000)
			store.period(periodID).Status = status
			service := NewService(store)

			_, err := service.Adjust(context.Background(), store.items[0].ID, 5000, "late correction")
			if !errors.Is(err, ErrPeriodLocked) {
				t.Fatalf("Adjust = %v, want ErrPeriodLocked", err)
			}
		})
	}
}

func TestAdjustedCountSurvivesApproval(t *testing.T) {
	store := newPayrollFake()
	periodID := seedDraftPeriod(store, 300000, 250000)
	service := NewService(store)

	if _, err := service.Adjust(context.Background(), store.items[0].ID, 5000, "transport reimbursement"); err != nil {
		t.Fatalf("Adjust returned %v", err)
	}
	if _, err := service.SubmitForReview(context.Background(), periodID); err != nil {
		t.Fatalf("SubmitForReview returned %v", err)
	}
	if _, err := service.Approve(context.Background(), periodID); err != nil {
		t.Fatalf("Approve returned %v", err)
	}

	items, _ := service.ListItems(context.Background(), periodID)
	for _, item := range items {
		if item.Status != ItemStatusConfirmed {
			t.Fatalf("item status after approval = %q, want confirmed", item.Status)
		}
	}

	summary, err := service.Summary(context.Background(), periodID)
	if err != nil {
		t.Fatalf("Summary returned %v", err)
	}
	if summary.AdjustedCount != 1 {
		t.Fatalf("adjusted count after approval = %d, want 1", summary.AdjustedCount)
	}
	if summary.EmployeeCount != 2 {
		t.Fatalf("employee count = %d, want 2", summary.EmployeeCount)
	}
}

func TestCreatePeriodCalculatesItems(t *testing.T) {
	store := newPayrollFake()
	store.employees = []EmployeeRef{{ID: "emp-1", Name: "Aoi Tanaka"}}
	store.rates["emp-1"] = ActiveRate{ConfigID: "cfg-1", SalaryType: compensation.SalaryTypeMonthly, Rate: 348000}
	store.work["emp-1"] = WorkRecord{EmployeeID: "emp-1", OvertimeMinutes: 120}
	store.lines["emp-1"] = []Line{
		{Name: "Housing Allowance", Type: compensation.ItemTypeAllowance, Amount: 20000},
		{Name: "Income Tax", Type: compensation.ItemTypeDeduction, Amount: 15000},
	}
	service := NewService(store)

	period, err := service.CreatePeriod(context.Background(), "co-1", 2026, 3)
	if err != nil {
		t.Fatalf("CreatePeriod returned %v", err)
	}
	if period.Status != PeriodStatusDraft {
		t.Fatalf("period status = %q, want draft", period.Status)
	}

	items, err := service.ListItems(context.Background(), period.ID)
	if err != nil {
		t.Fatalf("ListItems returned %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("item count = %d, want 1", len(items))
	}
	// 348000 base + 5000 overtime + 20000 allowance - 15000 deduction.
	if items[0].Net != 358000 {
		t.Fatalf("net = %v, want 358000", items[0].Net)
	}
	if period.TotalNet != 358000 {
		t.Fatalf("period total net = %v, want 358000", period.TotalNet)
	}

	if _, err := service.CreatePeriod(context.Background(), "co-1", 2026, 3); !errors.Is(err, ErrPeriodExists) {
		t.Fatalf("duplicate CreatePeriod = %v, want ErrPeriodExists", err)
	}
}
