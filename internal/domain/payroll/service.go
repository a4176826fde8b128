package payroll

import (
	"context"
	"log/slog"
	"time"

	"payadmin/internal/domain/compensation"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) GetPeriod(ctx context.Context, id string) (Period, error) {
	return s.store.GetPeriod(ctx, id)
}

func (s *Service) ListPeriods(ctx context.Context, companyID string, limit, offset int) ([]Period, int, error) {
	total, err := s.store.CountPeriods(ctx, companyID)
	if err != nil {
		return nil, 0, err
	}
	periods, err := s.store.ListPeriods(ctx, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return periods, total, nil
}

func (s *Service) ListItems(ctx context.Context, periodID string) ([]Item, error) {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, periodID)
}

func (s *Service) Summary(ctx context.Context, periodID string) (Summary, error) {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		return Summary{}, err
	}
	return s.store.Summary(ctx, periodID)
}

// CreatePeriod opens the company-month period with bounds derived from the
// company cutoff day and runs the initial calculation.
func (s *Service) CreatePeriod(ctx context.Context, companyID string, year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	if year < 2000 || year > 2100 {
		return Period{}, &ValidationError{Field: "year", Reason: "is out of range"}
	}

	exists, err := s.store.PeriodExists(ctx, companyID, year, month)
	if err != nil {
		return Period{}, err
	}
	if exists {
		return Period{}, ErrPeriodExists
	}

	cutoffDay, err := s.store.CompanyCutoffDay(ctx, companyID)
	if err != nil {
		return Period{}, err
	}
	start, end := compensation.CycleBounds(year, time.Month(month), cutoffDay)

	id, err := s.store.CreatePeriod(ctx, companyID, year, month, start, end)
	if err != nil {
		return Period{}, err
	}
	if err := s.recalculate(ctx, id); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, id)
}

func (s *Service) SubmitForReview(ctx context.Context, id string) (Period, error) {
	period, err := s.store.GetPeriod(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if err := Transition(period.Status, PeriodStatusReviewing); err != nil {
		return Period{}, err
	}

	count, err := s.store.CountItems(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if count == 0 {
		return Period{}, ErrNoItems
	}

	if err := s.store.UpdateStatus(ctx, id, PeriodStatusDraft, PeriodStatusReviewing); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, id)
}

// Approve freezes all items: no further adjustment or recalculation.
func (s *Service) Approve(ctx context.Context, id string) (Period, error) {
	period, err := s.store.GetPeriod(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if err := Transition(period.Status, PeriodStatusApproved); err != nil {
		return Period{}, err
	}
	if err := s.store.MarkApproved(ctx, id); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, id)
}

func (s *Service) Reject(ctx context.Context, id, reason string) (Period, error) {
	period, err := s.store.GetPeriod(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if err := Transition(period.Status, PeriodStatusDraft); err != nil {
		return Period{}, err
	}
	if err := validateReason(reason); err != nil {
		return Period{}, err
	}
	if err := s.store.MarkRejected(ctx, id, reason); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, id)
}

// MarkAsPaid is terminal. From this point the compensation configs behind the
// period's items read as used-in-payroll and refuse mutation.
func (s *Service) MarkAsPaid(ctx context.Context, id, paymentReference string) (Period, error) {
	period, err := s.store.GetPeriod(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if err := Transition(period.Status, PeriodStatusPaid); err != nil {
		return Period{}, err
	}
	if err := s.store.MarkPaid(ctx, id, paymentReference); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, id)
}

// Recalculate discards the period's items and regenerates them from the
// current compensation and assignment state. Draft periods only.
func (s *Service) Recalculate(ctx context.Context, id string) (Period, error) {
	period, err := s.store.GetPeriod(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if !Editable(period.Status) {
		return Period{}, ErrPeriodLocked
	}
	if err := s.recalculate(ctx, id); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, id)
}

func (s *Service) recalculate(ctx context.Context, id string) error {
	period, err := s.store.GetPeriod(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteItemsForPeriod(ctx, id); err != nil {
		return err
	}

	employees, err := s.store.ListActiveEmployees(ctx, period.CompanyID)
	if err != nil {
		return err
	}
	work, err := s.store.WorkRecords(ctx, id)
	if err != nil {
		return err
	}

	for _, employee := range employees {
		rate, err := s.store.ActiveRateFor(ctx, employee.ID, period.PeriodEnd)
		if err != nil {
			return err
		}
		if rate == nil {
			slog.Warn("no active compensation config for period, skipping employee",
				"employeeId", employee.ID, "periodId", id)
			continue
		}

		lines, err := s.store.AssignmentLines(ctx, employee.ID)
		if err != nil {
			return err
		}
		record := work[employee.ID]
		breakdown := Compute(rate.SalaryType, rate.Rate, record, lines)

		item := Item{
			PeriodID:        id,
			EmployeeID:      employee.ID,
			ConfigID:        rate.ConfigID,
			SalaryType:      rate.SalaryType,
			BaseSalary:      breakdown.BaseSalary,
			OvertimeMinutes: record.OvertimeMinutes,
			OvertimePay:     breakdown.OvertimePay,
			AllowanceTotal:  breakdown.AllowanceTotal,
			DeductionTotal:  breakdown.DeductionTotal,
			Gross:           breakdown.Gross,
			Net:             breakdown.Net,
		}
		for _, line := range lines {
			switch line.Type {
			case compensation.ItemTypeAllowance:
				item.Allowances = append(item.Allowances, line)
			case compensation.ItemTypeDeduction:
				item.Deductions = append(item.Deductions, line)
			}
		}
		if err := s.store.InsertItem(ctx, item); err != nil {
			return err
		}
	}

	return s.store.RefreshTotals(ctx, id)
}

// Adjust applies a signed delta to an item's net salary. Only legal while the
// owning period is in draft; the delta is never retried automatically.
func (s *Service) Adjust(ctx context.Context, itemID string, amount float64, reason string) (Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return Item{}, err
	}
	period, err := s.store.GetPeriod(ctx, item.PeriodID)
	if err != nil {
		return Item{}, err
	}
	if !Editable(period.Status) {
		return Item{}, ErrPeriodLocked
	}
	if err := ValidateAdjustment(amount, reason); err != nil {
		return Item{}, err
	}

	if err := s.store.ApplyAdjustment(ctx, itemID, amount, reason); err != nil {
		return Item{}, err
	}
	if err := s.store.RefreshTotals(ctx, item.PeriodID); err != nil {
		return Item{}, err
	}
	return s.store.GetItem(ctx, itemID)
}

// SetWorkRecord records the units worked for one employee in a draft period.
// The figures take effect on the next recalculation.
func (s *Service) SetWorkRecord(ctx context.Context, periodID string, record WorkRecord) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if !Editable(period.Status) {
		return ErrPeriodLocked
	}
	if record.DaysWorked < 0 || record.HoursWorked < 0 || record.ShiftsWorked < 0 || record.OvertimeMinutes < 0 {
		return &ValidationError{Field: "workRecord", Reason: "units must not be negative"}
	}
	return s.store.UpsertWorkRecord(ctx, periodID, record)
}

func validateReason(reason string) error {
	if err := ValidateAdjustment(0, reason); err != nil {
		return err
	}
	return nil
}
