// Copyright 2026 The TroopDeck Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/troopdeck/troopdeck/internal/form"
)

// FormTemplateRepository implements form.TemplateRepository
type FormTemplateRepository struct {
	db *DB
}

// NewFormTemplateRepository creates a new form template repository
func NewFormTemplateRepository(db *DB) *FormTemplateRepository {
	return &FormTemplateRepository{db: db}
}

// Create creates a form template
func (r *FormTemplateRepository) Create(ctx context.Context, t *form.Template) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO form_templates (id, org_id, name, category, org_sensitive, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.OrgID, t.Name, t.Category, t.OrgSensitive, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return form.ErrDuplicateTemplate
		}
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetByID retrieves a template
func (r *FormTemplateRepository) GetByID(ctx context.Context, id string) (*form.Template, error) {
	var t form.Template

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, org_id, name, category, org_sensitive, created_at
		FROM form_templates
		WHERE id = $1
	`, id).Scan(&t.ID, &t.OrgID, &t.Name, &t.Category, &t.OrgSensitive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, form.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return &t, nil
}

// ListByOrg retrieves all templates of an organization
func (r *FormTemplateRepository) ListByOrg(ctx context.Context, orgID string) ([]*form.Template, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, org_id, name, category, org_sensitive, created_at
		FROM form_templates
		WHERE org_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*form.Template
	for rows.Next() {
		var t form.Template
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name, &t.Category, &t.OrgSensitive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, &t)
	}

	return templates, nil
}

// FormGrantRepository implements form.GrantRepository
type FormGrantRepository struct {
	db *DB
}

// NewFormGrantRepository creates a new form grant repository
func NewFormGrantRepository(db *DB) *FormGrantRepository {
	return &FormGrantRepository{db: db}
}

// Upsert writes the full flag set for (template, role) in one statement, so
// readers never observe a half-updated matrix.
func (r *FormGrantRepository) Upsert(ctx context.Context, g *form.Grant) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO form_role_grants (template_id, role_id, can_view, can_submit, can_edit, can_approve)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (template_id, role_id) DO UPDATE SET
			can_view = EXCLUDED.can_view,
			can_submit = EXCLUDED.can_submit,
			can_edit = EXCLUDED.can_edit,
			can_approve = EXCLUDED.can_approve
	`, g.TemplateID, g.RoleID, g.View, g.Submit, g.Edit, g.Approve)
	if err != nil {
		return fmt.Errorf("failed to upsert form grant: %w", err)
	}
	return nil
}

// ListByTemplate retrieves all grants for a template
func (r *FormGrantRepository) ListByTemplate(ctx context.Context, templateID string) ([]*form.Grant, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT template_id, role_id, can_view, can_submit, can_edit, can_approve
		FROM form_role_grants
		WHERE template_id = $1
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list form grants: %w", err)
	}
	defer rows.Close()

	var grants []*form.Grant
	for rows.Next() {
		var g form.Grant
		if err := rows.Scan(&g.TemplateID, &g.RoleID, &g.View, &g.Submit, &g.Edit, &g.Approve); err != nil {
			return nil, fmt.Errorf("failed to scan form grant: %w", err)
		}
		grants = append(grants, &g)
	}

	return grants, nil
}

// HasAny reports whether any grant row exists for the template
func (r *FormGrantRepository) HasAny(ctx context.Context, templateID string) (bool, error) {
	var exists bool
	err := r.db.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM form_role_grants WHERE template_id = $1)
	`, templateID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check form grants: %w", err)
	}
	return exists, nil
}

// Capabilities retrieves the matrix for (role, template). An absent row is
// the zero matrix, not an error.
func (r *FormGrantRepository) Capabilities(ctx context.Context, roleID, templateID string) (form.Capabilities, error) {
	var caps form.Capabilities

	err := r.db.pool.QueryRow(ctx, `
		SELECT can_view, can_submit, can_edit, can_approve
		FROM form_role_grants
		WHERE role_id = $1 AND template_id = $2
	`, roleID, templateID).Scan(&caps.View, &caps.Submit, &caps.Edit, &caps.Approve)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return form.Capabilities{}, nil
		}
		return form.Capabilities{}, fmt.Errorf("failed to get form capabilities: %w", err)
	}

	return caps, nil
}
