package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"unitdesk/internal/schema"
	"unitdesk/internal/template/model"
	"unitdesk/pkg/logger"
)

var ErrNotFound = errors.New("template not found")

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

const selectColumns = `id, tenant_id, is_default, document, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(s scanner) (*model.Template, error) {
	var t model.Template
	var raw []byte
	if err := s.Scan(&t.ID, &t.TenantID, &t.IsDefault, &raw, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &t.Document); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", t.ID, err)
	}
	if t.Document.Components == nil {
		t.Document.Components = []schema.TemplateComponent{}
	}
	return &t, nil
}

func (r *TemplateRepository) List(ctx context.Context, tenantID string) ([]model.Template, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM invoice_templates WHERE tenant_id = $1 ORDER BY created_at, id`, tenantID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list templates for tenant %s: %v", tenantID, err)
		return nil, err
	}
	defer rows.Close()

	templates := []model.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			logger.Sugar.Warnf("Skipping unreadable template row: %v", err)
			continue
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Get(ctx context.Context, tenantID, id string) (*model.Template, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM invoice_templates WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get template %s: %v", id, err)
		return nil, err
	}
	return t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *model.Template) error {
	raw, err := json.Marshal(t.Document)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	err = r.DB.QueryRowContext(ctx,
		`INSERT INTO invoice_templates (id, tenant_id, name, description, document, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW()) RETURNING created_at, updated_at`,
		t.ID, t.TenantID, t.Document.Name, t.Document.Description, raw,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create template: %v", err)
	}
	return err
}

// Update replaces the stored document. Last write wins.
func (r *TemplateRepository) Update(ctx context.Context, tenantID, id string, doc schema.TemplateDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	result, err := r.DB.ExecContext(ctx,
		`UPDATE invoice_templates SET name = $1, description = $2, document = $3, updated_at = NOW()
		WHERE id = $4 AND tenant_id = $5`,
		doc.Name, doc.Description, raw, id, tenantID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update template %s: %v", id, err)
		return err
	}
	return expectOne(result)
}

func (r *TemplateRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM invoice_templates WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete template %s: %v", id, err)
		return err
	}
	return expectOne(result)
}

// SetDefault flags one template as the tenant's default and clears the flag
// on every other template of that tenant, in one transaction.
func (r *TemplateRepository) SetDefault(ctx context.Context, tenantID, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE invoice_templates SET is_default = FALSE WHERE tenant_id = $1 AND is_default AND id <> $2`,
		tenantID, id); err != nil {
		logger.Sugar.Errorf("Failed to clear default template for tenant %s: %v", tenantID, err)
		return err
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE invoice_templates SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	if err != nil {
		logger.Sugar.Errorf("Failed to set default template %s: %v", id, err)
		return err
	}
	if err := expectOne(result); err != nil {
		return err
	}
	return tx.Commit()
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
