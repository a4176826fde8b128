package company

import (
	"context"
	"strings"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Settings(ctx context.Context, companyID string) (Settings, error) {
	return s.store.GetSettings(ctx, companyID)
}

// UpdateSettings replaces the company name and cutoff day. A cutoff day of 0
// anchors pay cycles to the calendar month; 1 to 31 is a day-of-month cutoff.
func (s *Service) UpdateSettings(ctx context.Context, companyID string, settings Settings) (Settings, error) {
	if err := ValidateSettings(settings); err != nil {
		return Settings{}, err
	}
	if err := s.store.UpdateSettings(ctx, companyID, strings.TrimSpace(settings.Name), settings.CutoffDay); err != nil {
		return Settings{}, err
	}
	return s.store.GetSettings(ctx, companyID)
}

func (s *Service) ListTemplates(ctx context.Context, companyID string) ([]Template, error) {
	return s.store.ListTemplates(ctx, companyID)
}

func (s *Service) CreateTemplate(ctx context.Context, companyID string, input TemplateInput) (Template, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := ValidateTemplate(input); err != nil {
		return Template{}, err
	}
	id, err := s.store.InsertTemplate(ctx, companyID, input)
	if err != nil {
		return Template{}, err
	}
	return s.store.GetTemplate(ctx, id)
}

// DeleteTemplate removes a catalog entry that no employee is assigned to.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	assigned, err := s.store.TemplateAssigned(ctx, id)
	if err != nil {
		return err
	}
	if assigned {
		return ErrTemplateInUse
	}
	return s.store.DeleteTemplate(ctx, id)
}

func ValidateSettings(settings Settings) error {
	if strings.TrimSpace(settings.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if settings.CutoffDay < 0 || settings.CutoffDay > 31 {
		return &ValidationError{Field: "cutoffDay", Reason: "must be between 0 and 31"}
	}
	return nil
}

func ValidateTemplate(input TemplateInput) error {
	if input.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if !validTemplateType(input.Type) {
		return &ValidationError{Field: "type", Reason: "must be allowance or deduction"}
	}
	if input.DefaultAmount < 0 {
		return &ValidationError{Field: "defaultAmount", Reason: "must not be negative"}
	}
	return nil
}
