package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"payadmin/internal/domain/auth"
	"payadmin/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	companyID, err := ensureCompany(ctx, pool, cfg.SeedCompanyName, cfg.DefaultCutoffDay)
	if err != nil {
		return err
	}

	if err := ensureAdminUser(ctx, pool, companyID, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	return ensureDefaultTemplates(ctx, pool, companyID)
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name string, cutoffDay int) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO companies (name, cutoff_day) VALUES ($1, $2) RETURNING id", name, cutoffDay).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, companyID, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE company_id = $1 AND email = $2", companyID, email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx, "INSERT INTO users (company_id, email, password_hash) VALUES ($1, $2, $3) RETURNING id", companyID, email, hash).Scan(&id)
}

func ensureDefaultTemplates(ctx context.Context, pool *pgxpool.Pool, companyID string) error {
	defaults := []struct {
		name     string
		itemType string
	}{
		{"Commuting Allowance", "allowance"},
		{"Housing Allowance", "allowance"},
		{"Income Tax", "deduction"},
		{"Social Insurance", "deduction"},
	}
	for _, tpl := range defaults {
		_, err := pool.Exec(ctx, `
      INSERT INTO salary_item_templates (company_id, name, item_type)
      VALUES ($1, $2, $3)
      ON CONFLICT (company_id, name) DO NOTHING
    `, companyID, tpl.name, tpl.itemType)
		if err != nil {
			return err
		}
	}
	return nil
}
