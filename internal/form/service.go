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

package form

import (
	"context"
	"fmt"
	"time"

	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/id"
	"github.com/troopdeck/troopdeck/internal/role"
)

// CacheInvalidator drops cached form capabilities for a role. Called
// synchronously after every grant write, before the write returns.
type CacheInvalidator interface {
	InvalidateForm(roleID string)
}

// Service provides form template and grant business logic
type Service struct {
	templates   TemplateRepository
	grants      GrantRepository
	roles       role.Repository
	cache       CacheInvalidator
	auditLogger audit.Logger
}

// NewService creates a new form service
func NewService(
	templates TemplateRepository,
	grants GrantRepository,
	roles role.Repository,
	cache CacheInvalidator,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		templates:   templates,
		grants:      grants,
		roles:       roles,
		cache:       cache,
		auditLogger: auditLogger,
	}
}

// CreateTemplate creates a template and populates its default grants so the
// system is never in a state where no role can access a form.
func (s *Service) CreateTemplate(ctx context.Context, orgID, name, category string, orgSensitive bool) (*Template, error) {
	if name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	t := &Template{
		ID:           id.NewUUIDv7(),
		OrgID:        orgID,
		Name:         name,
		Category:     category,
		OrgSensitive: orgSensitive,
		CreatedAt:    time.Now(),
	}

	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}

	if err := s.PopulateDefaults(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to populate default grants: %w", err)
	}

	return t, nil
}

// GetTemplate retrieves a template by ID.
func (s *Service) GetTemplate(ctx context.Context, templateID string) (*Template, error) {
	return s.templates.GetByID(ctx, templateID)
}

// ListTemplates lists an organization's templates.
func (s *Service) ListTemplates(ctx context.Context, orgID string) ([]*Template, error) {
	return s.templates.ListByOrg(ctx, orgID)
}

// SetGrant writes the full capability matrix for (template, role). The role
// must belong to the template's organization.
func (s *Service) SetGrant(ctx context.Context, templateID, roleID string, caps Capabilities) error {
	t, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	r, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if r.OrgID != t.OrgID {
		return role.ErrRoleNotFound
	}

	if err := s.grants.Upsert(ctx, &Grant{TemplateID: templateID, RoleID: roleID, Capabilities: caps}); err != nil {
		return err
	}
	s.cache.InvalidateForm(roleID)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeFormGrantUpdated,
		OrgID:    t.OrgID,
		Resource: t.Name,
		Metadata: map[string]any{
			"template_id": templateID,
			"role_id":     roleID,
			"view":        caps.View,
			"submit":      caps.Submit,
			"edit":        caps.Edit,
			"approve":     caps.Approve,
		},
	})

	return nil
}

// ListGrants lists all grants of a template.
func (s *Service) ListGrants(ctx context.Context, templateID string) ([]*Grant, error) {
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, err
	}
	return s.grants.ListByTemplate(ctx, templateID)
}

// PopulateDefaults seeds the default grant matrix for a template. It is a
// one-time bootstrap, not a continuously enforced invariant: once any grant
// row exists for the template, this is a no-op and administrators own the
// matrix from then on.
func (s *Service) PopulateDefaults(ctx context.Context, t *Template) error {
	seeded, err := s.grants.HasAny(ctx, t.ID)
	if err != nil {
		return err
	}
	if seeded {
		return nil
	}

	for _, name := range []string{role.RoleDistrict, role.RoleUnitAdmin, role.RoleLeader, role.RoleParent} {
		r, err := s.roles.GetByName(ctx, t.OrgID, name)
		if err != nil {
			// An organization provisioned without one of the system roles
			// simply gets no default grant for it.
			continue
		}

		caps := DefaultCapabilities(t, name)
		if !caps.Any() {
			continue
		}

		if err := s.grants.Upsert(ctx, &Grant{TemplateID: t.ID, RoleID: r.ID, Capabilities: caps}); err != nil {
			return err
		}
		s.cache.InvalidateForm(r.ID)
	}

	return nil
}
