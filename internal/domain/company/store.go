package company

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetSettings(ctx context.Context, companyID string) (Settings, error) {
	var settings Settings
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, cutoff_day FROM companies WHERE id = $1
  `, companyID).Scan(&settings.CompanyID, &settings.Name, &settings.CutoffDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	return settings, err
}

func (s *Store) UpdateSettings(ctx context.Context, companyID, name string, cutoffDay int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE companies SET name = $2, cutoff_day = $3 WHERE id = $1
  `, companyID, name, cutoffDay)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListTemplates(ctx context.Context, companyID string) ([]Template, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, item_type, default_amount, created_at
    FROM salary_item_templates
    WHERE company_id = $1
    ORDER BY item_type, name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var template Template
		if err := rows.Scan(&template.ID, &template.CompanyID, &template.Name,
			&template.Type, &template.DefaultAmount, &template.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, nil
}

func (s *Store) InsertTemplate(ctx context.Context, companyID string, input TemplateInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO salary_item_templates (company_id, name, item_type, default_amount)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, companyID, input.Name, input.Type, input.DefaultAmount).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return "", ErrDuplicateName
	}
	return id, err
}

func (s *Store) GetTemplate(ctx context.Context, id string) (Template, error) {
	var template Template
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, item_type, default_amount, created_at
    FROM salary_item_templates
    WHERE id = $1
  `, id).Scan(&template.ID, &template.CompanyID, &template.Name,
		&template.Type, &template.DefaultAmount, &template.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrTemplateNotFound
	}
	return template, err
}

func (s *Store) TemplateAssigned(ctx context.Context, id string) (bool, error) {
	var assigned bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM salary_item_assignments WHERE template_id = $1)
  `, id).Scan(&assigned)
	return assigned, err
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM salary_item_templates WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
