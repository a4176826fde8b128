package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const itemColumns = `
    i.id, i.period_id, i.employee_id, e.first_name || ' ' || e.last_name,
    i.config_id, i.salary_type, i.base_salary, i.overtime_minutes, i.overtime_pay,
    i.allowances_json, i.deductions_json, i.allowance_total, i.deduction_total,
    i.gross, i.net, i.adjustment_amount, i.adjustment_reason, i.status, i.created_at`

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	var allowancesJSON, deductionsJSON []byte
	err := row.Scan(&item.ID, &item.PeriodID, &item.EmployeeID, &item.EmployeeName,
		&item.ConfigID, &item.SalaryType, &item.BaseSalary, &item.OvertimeMinutes, &item.OvertimePay,
		&allowancesJSON, &deductionsJSON, &item.AllowanceTotal, &item.DeductionTotal,
		&item.Gross, &item.Net, &item.AdjustmentAmount, &item.AdjustmentReason, &item.Status, &item.CreatedAt)
	if err != nil {
		return Item{}, err
	}
	if err := json.Unmarshal(allowancesJSON, &item.Allowances); err != nil {
		item.Allowances = nil
	}
	if err := json.Unmarshal(deductionsJSON, &item.Deductions); err != nil {
		item.Deductions = nil
	}
	return item, nil
}

func (s *Store) CountItems(ctx context.Context, periodID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_items WHERE period_id = $1", periodID).Scan(&total)
	return total, err
}

func (s *Store) ListItems(ctx context.Context, periodID string) ([]Item, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+itemColumns+`
    FROM payroll_items i
    JOIN employees e ON i.employee_id = e.id
    WHERE i.period_id = $1
    ORDER BY e.last_name, e.first_name
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) GetItem(ctx context.Context, itemID string) (Item, error) {
	item, err := scanItem(s.DB.QueryRow(ctx, `
    SELECT`+itemColumns+`
    FROM payroll_items i
    JOIN employees e ON i.employee_id = e.id
    WHERE i.id = $1
  `, itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return item, err
}

func (s *Store) InsertItem(ctx context.Context, item Item) error {
	allowancesJSON, err := json.Marshal(emptyIfNil(item.Allowances))
	if err != nil {
		return err
	}
	deductionsJSON, err := json.Marshal(emptyIfNil(item.Deductions))
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO payroll_items
      (period_id, employee_id, config_id, salary_type, base_salary, overtime_minutes, overtime_pay,
       allowances_json, deductions_json, allowance_total, deduction_total, gross, net)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
  `, item.PeriodID, item.EmployeeID, item.ConfigID, item.SalaryType,
		item.BaseSalary, item.OvertimeMinutes, item.OvertimePay,
		allowancesJSON, deductionsJSON, item.AllowanceTotal, item.DeductionTotal,
		item.Gross, item.Net)
	return err
}

func (s *Store) DeleteItemsForPeriod(ctx context.Context, periodID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM payroll_items WHERE period_id = $1", periodID)
	return err
}

// ApplyAdjustment folds a signed delta into the item in one statement, so the
// mutation is all-or-nothing at the record level.
func (s *Store) ApplyAdjustment(ctx context.Context, itemID string, amount float64, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_items
    SET net = net + $2,
        adjustment_amount = adjustment_amount + $2,
        adjustment_reason = $3,
        status = $4
    WHERE id = $1
  `, itemID, amount, reason, ItemStatusAdjusted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

type EmployeeRef struct {
	ID   string
	Name string
}

func (s *Store) ListActiveEmployees(ctx context.Context, companyID string) ([]EmployeeRef, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name || ' ' || last_name
    FROM employees
    WHERE company_id = $1 AND status = 'active'
    ORDER BY last_name, first_name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []EmployeeRef
	for rows.Next() {
		var employee EmployeeRef
		if err := rows.Scan(&employee.ID, &employee.Name); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s *Store) WorkRecords(ctx context.Context, periodID string) (map[string]WorkRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, days_worked, hours_worked, shifts_worked, overtime_minutes
    FROM payroll_inputs
    WHERE period_id = $1
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := map[string]WorkRecord{}
	for rows.Next() {
		var record WorkRecord
		if err := rows.Scan(&record.EmployeeID, &record.DaysWorked, &record.HoursWorked,
			&record.ShiftsWorked, &record.OvertimeMinutes); err != nil {
			return nil, err
		}
		records[record.EmployeeID] = record
	}
	return records, nil
}

func (s *Store) UpsertWorkRecord(ctx context.Context, periodID string, record WorkRecord) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_inputs (period_id, employee_id, days_worked, hours_worked, shifts_worked, overtime_minutes)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (period_id, employee_id)
    DO UPDATE SET days_worked = EXCLUDED.days_worked, hours_worked = EXCLUDED.hours_worked,
                  shifts_worked = EXCLUDED.shifts_worked, overtime_minutes = EXCLUDED.overtime_minutes
  `, periodID, record.EmployeeID, record.DaysWorked, record.HoursWorked,
		record.ShiftsWorked, record.OvertimeMinutes)
	return err
}

type ActiveRate struct {
	ConfigID   string
	SalaryType string
	Rate       float64
}

// ActiveRateFor resolves the compensation record in force for an employee on
// a date. Exactly one of the rate columns is populated per record.
func (s *Store) ActiveRateFor(ctx context.Context, employeeID string, asOf time.Time) (*ActiveRate, error) {
	var rate ActiveRate
	err := s.DB.QueryRow(ctx, `
    SELECT id, salary_type, COALESCE(monthly_salary, daily_rate, hourly_rate, shift_rate, 0)
    FROM compensation_configs
    WHERE employee_id = $1
      AND effective_from <= $2
      AND (effective_to IS NULL OR effective_to >= $2)
    ORDER BY effective_from
    LIMIT 1
  `, employeeID, asOf).Scan(&rate.ConfigID, &rate.SalaryType, &rate.Rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *Store) AssignmentLines(ctx context.Context, employeeID string) ([]Line, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.template_id, t.name, a.item_type, a.amount
    FROM salary_item_assignments a
    JOIN salary_item_templates t ON a.template_id = t.id
    WHERE a.employee_id = $1
    ORDER BY t.name
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.TemplateID, &line.Name, &line.Type, &line.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Store) RegisterRows(ctx context.Context, periodID string) ([]RegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT i.employee_id, e.first_name || ' ' || e.last_name, i.salary_type,
           i.base_salary, i.overtime_pay, i.allowance_total, i.deduction_total, i.gross, i.net
    FROM payroll_items i
    JOIN employees e ON i.employee_id = e.id
    WHERE i.period_id = $1
    ORDER BY e.last_name, e.first_name
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisterRow
	for rows.Next() {
		var row RegisterRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.SalaryType,
			&row.BaseSalary, &row.OvertimePay, &row.Allowances, &row.Deductions, &row.Gross, &row.Net); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func emptyIfNil(lines []Line) []Line {
	if lines == nil {
		return []Line{}
	}
	return lines
}
