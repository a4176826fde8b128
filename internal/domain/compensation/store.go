package compensation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const configColumns = `
    id, employee_id, salary_type, monthly_salary, daily_rate, hourly_rate, shift_rate,
    effective_from, effective_to, note, created_at`

func scanConfig(row pgx.Row) (Config, error) {
	var cfg Config
	err := row.Scan(&cfg.ID, &cfg.EmployeeID, &cfg.SalaryType,
		&cfg.MonthlySalary, &cfg.DailyRate, &cfg.HourlyRate, &cfg.ShiftRate,
		&cfg.Period.From, &cfg.Period.To, &cfg.Note, &cfg.CreatedAt)
	return cfg, err
}

func (s *Store) ListConfigs(ctx context.Context, employeeID string) ([]Config, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+configColumns+`
    FROM compensation_configs
    WHERE employee_id = $1
    ORDER BY effective_from DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (s *Store) GetConfig(ctx context.Context, id string) (Config, error) {
	cfg, err := scanConfig(s.DB.QueryRow(ctx, `
    SELECT`+configColumns+`
    FROM compensation_configs
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Config{}, ErrNotFound
	}
	return cfg, err
}

func (s *Store) InsertConfig(ctx context.Context, employeeID string, input ConfigInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO compensation_configs
      (employee_id, salary_type, monthly_salary, daily_rate, hourly_rate, shift_rate, effective_from, effective_to, note)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, employeeID, input.SalaryType, input.MonthlySalary, input.DailyRate, input.HourlyRate, input.ShiftRate,
		input.EffectiveFrom, input.EffectiveTo, input.Note).Scan(&id)
	return id, err
}

func (s *Store) UpdateConfig(ctx context.Context, id string, input ConfigInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE compensation_configs
    SET salary_type = $2, monthly_salary = $3, daily_rate = $4, hourly_rate = $5, shift_rate = $6,
        effective_from = $7, effective_to = $8, note = $9, updated_at = now()
    WHERE id = $1
  `, id, input.SalaryType, input.MonthlySalary, input.DailyRate, input.HourlyRate, input.ShiftRate,
		input.EffectiveFrom, input.EffectiveTo, input.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteConfig(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM compensation_configs WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UsedInPayroll is derived from paid periods rather than stored, so the lock
// cannot drift from the workflow state.
func (s *Store) UsedInPayroll(ctx context.Context, configID string) (bool, error) {
	var used bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1
      FROM payroll_items i
      JOIN payroll_periods p ON i.period_id = p.id
      WHERE i.config_id = $1 AND p.status = 'paid'
    )
  `, configID).Scan(&used)
	return used, err
}

// PromoteConfig makes the target record the active one from a given date,
// closing the previously open record the day before. Both updates share one
// transaction so the overlap invariant holds at every commit point.
func (s *Store) PromoteConfig(ctx context.Context, id, closeID string, from time.Time) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if closeID != "" {
		if _, err := tx.Exec(ctx, `
      UPDATE compensation_configs SET effective_to = $2, updated_at = now() WHERE id = $1
    `, closeID, from.AddDate(0, 0, -1)); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
    UPDATE compensation_configs
    SET effective_from = LEAST(effective_from, $2), effective_to = NULL, updated_at = now()
    WHERE id = $1
  `, id, from); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) EmployeeCompanyID(ctx context.Context, employeeID string) (string, error) {
	var companyID string
	err := s.DB.QueryRow(ctx, "SELECT company_id FROM employees WHERE id = $1", employeeID).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return companyID, err
}

func (s *Store) CompanyCutoffDay(ctx context.Context, companyID string) (int, error) {
	var cutoffDay int
	err := s.DB.QueryRow(ctx, "SELECT cutoff_day FROM companies WHERE id = $1", companyID).Scan(&cutoffDay)
	return cutoffDay, err
}

func (s *Store) ListAssignments(ctx context.Context, employeeID string) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.employee_id, a.template_id, t.name, a.item_type, a.amount
    FROM salary_item_assignments a
    JOIN salary_item_templates t ON a.template_id = t.id
    WHERE a.employee_id = $1
    ORDER BY t.name
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var assignment Assignment
		if err := rows.Scan(&assignment.ID, &assignment.EmployeeID, &assignment.TemplateID,
			&assignment.Name, &assignment.Type, &assignment.Amount); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

// TemplateType looks up a template's item type and default amount for
// assignment validation.
func (s *Store) TemplateType(ctx context.Context, templateID string) (string, float64, error) {
	var itemType string
	var defaultAmount float64
	err := s.DB.QueryRow(ctx, `
    SELECT item_type, default_amount
    FROM salary_item_templates
    WHERE id = $1
  `, templateID).Scan(&itemType, &defaultAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ErrNotFound
	}
	return itemType, defaultAmount, err
}

func (s *Store) UpsertAssignment(ctx context.Context, employeeID, templateID, itemType string, amount float64) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO salary_item_assignments (employee_id, template_id, item_type, amount)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id, template_id)
    DO UPDATE SET amount = EXCLUDED.amount
    RETURNING id
  `, employeeID, templateID, itemType, amount).Scan(&id)
	return id, err
}

func (s *Store) DeleteAssignment(ctx context.Context, employeeID, templateID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM salary_item_assignments WHERE employee_id = $1 AND template_id = $2
  `, employeeID, templateID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
