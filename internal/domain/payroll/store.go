package payroll

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

const periodColumns = `
    id, company_id, year, month, period_start, period_end, status,
    reject_reason, payment_reference, total_gross, total_net, total_overtime_pay,
    created_at, approved_at, paid_at`

func scanPeriod(row pgx.Row) (Period, error) {
	var period Period
	err := row.Scan(&period.ID, &period.CompanyID, &period.Year, &period.Month,
		&period.PeriodStart, &period.PeriodEnd, &period.Status,
		&period.RejectReason, &period.PaymentReference,
		&period.TotalGross, &period.TotalNet, &period.TotalOvertimePay,
		&period.CreatedAt, &period.ApprovedAt, &period.PaidAt)
	return period, err
}

func (s *Store) CompanyCutoffDay(ctx context.Context, companyID string) (int, error) {
	var cutoffDay int
	err := s.DB.QueryRow(ctx, "SELECT cutoff_day FROM companies WHERE id = $1", companyID).Scan(&cutoffDay)
	return cutoffDay, err
}

func (s *Store) PeriodExists(ctx context.Context, companyID string, year, month int) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM payroll_periods WHERE company_id = $1 AND year = $2 AND month = $3)
  `, companyID, year, month).Scan(&exists)
	return exists, err
}

func (s *Store) CreatePeriod(ctx context.Context, companyID string, year, month int, start, end time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_periods (company_id, year, month, period_start, period_end)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, companyID, year, month, start, end).Scan(&id)
	return id, err
}

func (s *Store) GetPeriod(ctx context.Context, id string) (Period, error) {
	period, err := scanPeriod(s.DB.QueryRow(ctx, `
    SELECT`+periodColumns+`
    FROM payroll_periods
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrPeriodNotFound
	}
	return period, err
}

func (s *Store) CountPeriods(ctx context.Context, companyID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_periods WHERE company_id = $1", companyID).Scan(&total)
	return total, err
}

func (s *Store) ListPeriods(ctx context.Context, companyID string, limit, offset int) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+periodColumns+`
    FROM payroll_periods
    WHERE company_id = $1
    ORDER BY year DESC, month DESC
    LIMIT $2 OFFSET $3
  `, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// UpdateStatus performs the transition guarded at the SQL level as well: the
// row is only touched when it is still in the expected state, so concurrent
// transitions are serialized by the database and the loser sees a conflict.
func (s *Store) UpdateStatus(ctx context.Context, id, from, to string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods SET status = $3 WHERE id = $1 AND status = $2
  `, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (s *Store) MarkRejected(ctx context.Context, id, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods SET status = $2, reject_reason = $3
    WHERE id = $1 AND status = $4
  `, id, PeriodStatusDraft, reason, PeriodStatusReviewing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (s *Store) MarkApproved(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE payroll_periods SET status = $2, approved_at = now()
    WHERE id = $1 AND status = $3
  `, id, PeriodStatusApproved, PeriodStatusReviewing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `
    UPDATE payroll_items SET status = $2 WHERE period_id = $1
  `, id, ItemStatusConfirmed); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) MarkPaid(ctx context.Context, id, paymentReference string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods SET status = $2, payment_reference = $3, paid_at = now()
    WHERE id = $1 AND status = $4
  `, id, PeriodStatusPaid, paymentReference, PeriodStatusApproved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// RefreshTotals recomputes period aggregates from the item rows. Totals are
// never patched incrementally.
func (s *Store) RefreshTotals(ctx context.Context, periodID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods p
    SET total_gross = agg.gross, total_net = agg.net, total_overtime_pay = agg.overtime
    FROM (
      SELECT COALESCE(SUM(gross),0) AS gross, COALESCE(SUM(net),0) AS net, COALESCE(SUM(overtime_pay),0) AS overtime
      FROM payroll_items
      WHERE period_id = $1
    ) agg
    WHERE p.id = $1
  `, periodID)
	return err
}

// Summary counts adjusted items by the presence of an adjustment reason, not
// by item status, so the figure survives approval confirming all items.
func (s *Store) Summary(ctx context.Context, periodID string) (Summary, error) {
	var summary Summary
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(gross),0), COALESCE(SUM(net),0), COALESCE(SUM(overtime_pay),0),
           COUNT(1), COUNT(1) FILTER (WHERE adjustment_reason <> '')
    FROM payroll_items
    WHERE period_id = $1
  `, periodID).Scan(&summary.TotalGross, &summary.TotalNet, &summary.TotalOvertimePay,
		&summary.EmployeeCount, &summary.AdjustedCount)
	return summary, err
}
