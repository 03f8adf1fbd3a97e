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

// Package form implements the form-permission overlay: a per-template
// capability matrix granted to roles, independent of the flat permission-key
// grants. Form access is deliberately NOT folded into the permission catalog —
// a role may view-only one form type and fully manage another, and templates
// are organization-owned rather than global.
package form

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrTemplateNotFound  = errors.New("form template not found")
	ErrDuplicateTemplate = errors.New("form template already exists")
)

// Template categories with dedicated default-grant policies. Any other
// category falls back to the default matrix.
const (
	// CategoryParticipant marks participant-scoped forms (health records,
	// permission slips, risk acceptance).
	CategoryParticipant = "participant"

	// CategoryBadgeRequest marks forms whose submissions require approval.
	CategoryBadgeRequest = "badge_request"

	// CategoryHonorRequest also requires approval.
	CategoryHonorRequest = "honor_request"

	// CategoryOrgSettings marks organization-sensitive forms that stay
	// district-only.
	CategoryOrgSettings = "org_settings"
)

// Template is an organization-owned form definition. OrgSensitive templates
// are restricted to the district role regardless of category.
type Template struct {
	ID           string
	OrgID        string
	Name         string
	Category     string
	OrgSensitive bool
	CreatedAt    time.Time
}

// Capabilities is the four-flag matrix governing one role's access to one
// template. Each flag is independent of the others.
type Capabilities struct {
	View    bool `json:"view"`
	Submit  bool `json:"submit"`
	Edit    bool `json:"edit"`
	Approve bool `json:"approve"`
}

// Union ORs each flag independently.
func (c Capabilities) Union(o Capabilities) Capabilities {
	return Capabilities{
		View:    c.View || o.View,
		Submit:  c.Submit || o.Submit,
		Edit:    c.Edit || o.Edit,
		Approve: c.Approve || o.Approve,
	}
}

// Any reports whether at least one flag is set.
func (c Capabilities) Any() bool {
	return c.View || c.Submit || c.Edit || c.Approve
}

// Grant associates a role with a template's capability matrix.
// (template_id, role_id) is unique.
type Grant struct {
	TemplateID string
	RoleID     string
	Capabilities
}

// TemplateRepository defines the interface for template persistence
type TemplateRepository interface {
	// Create creates a template. Returns ErrDuplicateTemplate on
	// (org_id, name) conflict.
	Create(ctx context.Context, t *Template) error

	// GetByID retrieves a template
	GetByID(ctx context.Context, id string) (*Template, error)

	// ListByOrg retrieves all templates of an organization
	ListByOrg(ctx context.Context, orgID string) ([]*Template, error)
}

// GrantRepository defines the interface for form grant persistence
type GrantRepository interface {
	// Upsert writes the full flag set for (template, role) atomically.
	Upsert(ctx context.Context, g *Grant) error

	// ListByTemplate retrieves all grants for a template
	ListByTemplate(ctx context.Context, templateID string) ([]*Grant, error)

	// HasAny reports whether any grant row exists for the template
	HasAny(ctx context.Context, templateID string) (bool, error)

	// Capabilities retrieves the matrix for (role, template). Absent rows
	// return the zero matrix, not an error.
	Capabilities(ctx context.Context, roleID, templateID string) (Capabilities, error)
}
