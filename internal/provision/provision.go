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

// Package provision seeds the permission catalog and stamps out the default
// role set for new organizations. Both operations are idempotent, so running
// them at every startup is safe.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/form"
	"github.com/troopdeck/troopdeck/internal/id"
	"github.com/troopdeck/troopdeck/internal/role"
)

// Service performs catalog seeding and organization provisioning
type Service struct {
	catalogRepo catalog.Repository
	roleRepo    role.Repository
	grantRepo   role.GrantRepository
	formService *form.Service
	cache       role.CacheInvalidator
	auditLogger audit.Logger
}

// NewService creates a new provisioning service
func NewService(
	catalogRepo catalog.Repository,
	roleRepo role.Repository,
	grantRepo role.GrantRepository,
	formService *form.Service,
	cache role.CacheInvalidator,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		roleRepo:    roleRepo,
		grantRepo:   grantRepo,
		formService: formService,
		cache:       cache,
		auditLogger: auditLogger,
	}
}

// SeedCatalog upserts every known permission into the catalog. Existing keys
// keep their grants; only display attributes are refreshed.
func (s *Service) SeedCatalog(ctx context.Context) error {
	perms := catalog.All()
	for i := range perms {
		if err := s.catalogRepo.Upsert(ctx, &perms[i]); err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", perms[i].Key, err)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeCatalogSeeded,
		ActorID:  audit.ActorSystemProvision,
		Resource: "permission_catalog",
		Metadata: map[string]any{"count": len(perms)},
	})

	return nil
}

// ProvisionOrganization creates the system roles for an organization with
// their default permission matrices, then populates default form grants for
// any templates that exist without grants. Roles that already exist are left
// untouched, so re-provisioning never overwrites administrative edits.
func (s *Service) ProvisionOrganization(ctx context.Context, orgID string) error {
	created := 0
	for _, spec := range systemRoles() {
		existing, err := s.roleRepo.GetByName(ctx, orgID, spec.Name)
		if err == nil && existing != nil {
			continue
		}
		if err != nil && !errors.Is(err, role.ErrRoleNotFound) {
			return fmt.Errorf("failed to look up role %s: %w", spec.Name, err)
		}

		now := time.Now()
		r := &role.Role{
			ID:           id.NewUUIDv7(),
			OrgID:        orgID,
			Name:         spec.Name,
			DisplayName:  spec.DisplayName,
			Description:  spec.Description,
			IsSystemRole: true,
			DataScope:    spec.DataScope,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.roleRepo.Create(ctx, r); err != nil {
			return fmt.Errorf("failed to create role %s: %w", spec.Name, err)
		}

		for _, key := range spec.Keys {
			if err := s.grantRepo.Grant(ctx, r.ID, key); err != nil {
				return fmt.Errorf("failed to grant %s to %s: %w", key, spec.Name, err)
			}
		}
		s.cache.Invalidate(r.ID)
		created++
	}

	// Backfill default form grants for templates created before the system
	// roles existed.
	templates, err := s.formService.ListTemplates(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	for _, t := range templates {
		if err := s.formService.PopulateDefaults(ctx, t); err != nil {
			return fmt.Errorf("failed to populate defaults for template %s: %w", t.Name, err)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeOrgProvisioned,
		OrgID:    orgID,
		ActorID:  audit.ActorSystemProvision,
		Resource: "system_roles",
		Metadata: map[string]any{"roles_created": created},
	})

	return nil
}
