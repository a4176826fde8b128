package compensation

import (
	"context"
	"log/slog"
	"time"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, employeeID string) ([]ConfigView, error) {
	history, err := s.store.ListConfigs(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	today := DateOnly(time.Now().UTC())
	views := make([]ConfigView, 0, len(history))
	for _, cfg := range history {
		status := Status(cfg, history, today)
		if status == StatusValid {
			slog.Warn("compensation config in range but superseded", "configId", cfg.ID, "employeeId", employeeID)
		}
		used, err := s.store.UsedInPayroll(ctx, cfg.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, ConfigView{
			Config:        cfg,
			Status:        status,
			IsActive:      status == StatusActive,
			UsedInPayroll: used,
		})
	}
	return views, nil
}

func (s *Service) Create(ctx context.Context, employeeID string, input ConfigInput) (Config, error) {
	if err := ValidateInput(input); err != nil {
		return Config{}, err
	}

	history, err := s.store.ListConfigs(ctx, employeeID)
	if err != nil {
		return Config{}, err
	}
	candidate := Period{From: DateOnly(input.EffectiveFrom), To: normalizeEnd(input.EffectiveTo)}
	if err := ValidatePeriod(candidate, history, ""); err != nil {
		return Config{}, err
	}

	input.EffectiveFrom = candidate.From
	input.EffectiveTo = candidate.To
	id, err := s.store.InsertConfig(ctx, employeeID, input)
	if err != nil {
		return Config{}, err
	}
	return s.store.GetConfig(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, input ConfigInput) (Config, error) {
	existing, err := s.store.GetConfig(ctx, id)
	if err != nil {
		return Config{}, err
	}
	used, err := s.store.UsedInPayroll(ctx, id)
	if err != nil {
		return Config{}, err
	}
	if used {
		return Config{}, ErrLocked
	}

	if err := ValidateInput(input); err != nil {
		return Config{}, err
	}
	history, err := s.store.ListConfigs(ctx, existing.EmployeeID)
	if err != nil {
		return Config{}, err
	}
	candidate := Period{From: DateOnly(input.EffectiveFrom), To: normalizeEnd(input.EffectiveTo)}
	if err := ValidatePeriod(candidate, history, id); err != nil {
		return Config{}, err
	}

	input.EffectiveFrom = candidate.From
	input.EffectiveTo = candidate.To
	if err := s.store.UpdateConfig(ctx, id, input); err != nil {
		return Config{}, err
	}
	return s.store.GetConfig(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetConfig(ctx, id); err != nil {
		return err
	}
	used, err := s.store.UsedInPayroll(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrLocked
	}
	return s.store.DeleteConfig(ctx, id)
}

// Apply promotes a non-current, non-expired record to be the active one now.
// The previously open record is closed the day before today.
func (s *Service) Apply(ctx context.Context, id string) (Config, error) {
	target, err := s.store.GetConfig(ctx, id)
	if err != nil {
		return Config{}, err
	}
	used, err := s.store.UsedInPayroll(ctx, id)
	if err != nil {
		return Config{}, err
	}
	if used {
		return Config{}, ErrLocked
	}

	today := DateOnly(time.Now().UTC())
	if target.Period.To != nil && target.Period.To.Before(today) {
		return Config{}, ErrNotApplicable
	}

	history, err := s.store.ListConfigs(ctx, target.EmployeeID)
	if err != nil {
		return Config{}, err
	}

	closeID := ""
	if active := ResolveActive(history, today); active != nil {
		if active.ID == id {
			return Config{}, ErrNotApplicable
		}
		// Closing at today-1 needs the active record to have started no
		// later than today-2, or the closed range would be empty.
		if !active.Period.From.Before(today.AddDate(0, 0, -1)) {
			return Config{}, ErrNotApplicable
		}
		closeID = active.ID
	}

	// The promoted record becomes [min(from, today), open]. That new range
	// must clear the rest of the history, with the record being closed
	// excluded since it ends at today-1 after the promotion.
	promoted := Period{From: today}
	if target.Period.From.Before(today) {
		promoted.From = target.Period.From
	}
	remaining := make([]Config, 0, len(history))
	for _, record := range history {
		if record.ID == closeID {
			continue
		}
		remaining = append(remaining, record)
	}
	if err := ValidatePeriod(promoted, remaining, id); err != nil {
		return Config{}, err
	}

	if err := s.store.PromoteConfig(ctx, id, closeID, today); err != nil {
		return Config{}, err
	}
	return s.store.GetConfig(ctx, id)
}

func (s *Service) ResolveActiveConfig(ctx context.Context, employeeID string, asOf time.Time) (*Config, error) {
	history, err := s.store.ListConfigs(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return ResolveActive(history, asOf), nil
}

// DefaultStart infers the suggested effective-from for a new record using the
// employee's history and the company cutoff day.
func (s *Service) DefaultStart(ctx context.Context, employeeID string) (time.Time, error) {
	history, err := s.store.ListConfigs(ctx, employeeID)
	if err != nil {
		return time.Time{}, err
	}
	companyID, err := s.store.EmployeeCompanyID(ctx, employeeID)
	if err != nil {
		return time.Time{}, err
	}
	cutoffDay, err := s.store.CompanyCutoffDay(ctx, companyID)
	if err != nil {
		return time.Time{}, err
	}
	return InferDefaultStart(history, cutoffDay, time.Now().UTC()), nil
}

func (s *Service) ListSalaryItems(ctx context.Context, employeeID string) ([]Assignment, error) {
	return s.store.ListAssignments(ctx, employeeID)
}

// SetSalaryItem assigns a template to an employee, replacing any existing
// amount. A nil amount falls back to the template default.
func (s *Service) SetSalaryItem(ctx context.Context, employeeID, templateID string, amount *float64) (Assignment, error) {
	itemType, defaultAmount, err := s.store.TemplateType(ctx, templateID)
	if err != nil {
		if err == ErrNotFound {
			return Assignment{}, &ValidationError{Field: "templateId", Reason: "unknown salary item template"}
		}
		return Assignment{}, err
	}

	value := defaultAmount
	if amount != nil {
		value = *amount
	}
	if value <= 0 {
		return Assignment{}, &ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}

	id, err := s.store.UpsertAssignment(ctx, employeeID, templateID, itemType, value)
	if err != nil {
		return Assignment{}, err
	}

	assignments, err := s.store.ListAssignments(ctx, employeeID)
	if err != nil {
		return Assignment{}, err
	}
	for _, assignment := range assignments {
		if assignment.ID == id {
			return assignment, nil
		}
	}
	return Assignment{ID: id, EmployeeID: employeeID, TemplateID: templateID, Type: itemType, Amount: value}, nil
}

func (s *Service) RemoveSalaryItem(ctx context.Context, employeeID, templateID string) error {
	return s.store.DeleteAssignment(ctx, employeeID, templateID)
}

func normalizeEnd(to *time.Time) *time.Time {
	if to == nil {
		return nil
	}
	normalized := DateOnly(*to)
	return &normalized
}
