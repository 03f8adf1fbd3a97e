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

package role

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/id"
)

// AssignmentChecker reports whether any membership still references a role.
// Implemented by the membership store; kept as a narrow interface so the role
// service does not depend on the membership package.
type AssignmentChecker interface {
	RoleInUse(ctx context.Context, roleID string) (bool, error)
}

// CacheInvalidator drops cached evaluation state for a role. Invalidation is
// synchronous: it runs after the grant write commits but before the write is
// acknowledged to the caller. A stale permission window is a security defect,
// not a performance quirk.
type CacheInvalidator interface {
	Invalidate(roleID string)
}

// Service provides role registry business logic
type Service struct {
	repo        Repository
	grants      GrantRepository
	catalogRepo catalog.Repository
	assignments AssignmentChecker
	cache       CacheInvalidator
	auditLogger audit.Logger
}

// NewService creates a new role service
func NewService(
	repo Repository,
	grants GrantRepository,
	catalogRepo catalog.Repository,
	assignments AssignmentChecker,
	cache CacheInvalidator,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		repo:        repo,
		grants:      grants,
		catalogRepo: catalogRepo,
		assignments: assignments,
		cache:       cache,
		auditLogger: auditLogger,
	}
}

// CreateRole creates a custom role in an organization.
func (s *Service) CreateRole(ctx context.Context, orgID, name, displayName, description string, scope DataScope) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if !scope.Valid() {
		return nil, ErrInvalidScope
	}
	if displayName == "" {
		displayName = name
	}

	now := time.Now()
	r := &Role{
		ID:           id.NewUUIDv7(),
		OrgID:        orgID,
		Name:         name,
		DisplayName:  displayName,
		Description:  description,
		IsSystemRole: false,
		DataScope:    scope,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleCreated,
		OrgID:    orgID,
		Resource: name,
		Metadata: map[string]any{"role_id": r.ID, "data_scope": string(scope)},
	})

	return r, nil
}

// GetRole retrieves a role by organization and name.
func (s *Service) GetRole(ctx context.Context, orgID, name string) (*Role, error) {
	return s.repo.GetByName(ctx, orgID, name)
}

// GetRoleByID retrieves a role by its surrogate key.
func (s *Service) GetRoleByID(ctx context.Context, roleID string) (*Role, error) {
	return s.repo.GetByID(ctx, roleID)
}

// ListRoles lists all roles of an organization.
func (s *Service) ListRoles(ctx context.Context, orgID string) ([]*Role, error) {
	return s.repo.List(ctx, orgID)
}

// DeleteRole removes a custom role. System roles are protected, and a role
// still referenced by any membership cannot be deleted. The in-use check is a
// service-layer existence query against the assignment join table.
func (s *Service) DeleteRole(ctx context.Context, roleID string) error {
	r, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if r.IsSystemRole {
		return ErrSystemRoleProtected
	}

	inUse, err := s.assignments.RoleInUse(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to check role usage: %w", err)
	}
	if inUse {
		return ErrRoleInUse
	}

	if err := s.repo.Delete(ctx, roleID); err != nil {
		return err
	}
	s.cache.Invalidate(roleID)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleDeleted,
		OrgID:    r.OrgID,
		Resource: r.Name,
		Metadata: map[string]any{"role_id": roleID},
	})

	return nil
}

// SetDataScope changes a role's data scope.
func (s *Service) SetDataScope(ctx context.Context, roleID string, scope DataScope) error {
	if !scope.Valid() {
		return ErrInvalidScope
	}

	r, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateDataScope(ctx, roleID, scope); err != nil {
		return err
	}
	s.cache.Invalidate(roleID)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleScopeChanged,
		OrgID:    r.OrgID,
		Resource: r.Name,
		Metadata: map[string]any{"role_id": roleID, "data_scope": string(scope)},
	})

	return nil
}

// GrantPermission grants a catalog permission key to a role. The key must
// exist in the catalog; unknown keys are rejected, never silently coerced.
func (s *Service) GrantPermission(ctx context.Context, roleID, permissionKey string) error {
	if _, err := s.catalogRepo.GetByKey(ctx, permissionKey); err != nil {
		if errors.Is(err, catalog.ErrPermissionNotFound) {
			return ErrUnknownPermission
		}
		return fmt.Errorf("failed to look up permission: %w", err)
	}

	r, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.grants.Grant(ctx, roleID, permissionKey); err != nil {
		return err
	}
	s.cache.Invalidate(roleID)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePermissionGranted,
		OrgID:    r.OrgID,
		Resource: r.Name,
		Metadata: map[string]any{"role_id": roleID, "permission_key": permissionKey},
	})

	return nil
}

// RevokePermission removes a permission key from a role.
func (s *Service) RevokePermission(ctx context.Context, roleID, permissionKey string) error {
	r, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.grants.Revoke(ctx, roleID, permissionKey); err != nil {
		return err
	}
	s.cache.Invalidate(roleID)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePermissionRevoked,
		OrgID:    r.OrgID,
		Resource: r.Name,
		Metadata: map[string]any{"role_id": roleID, "permission_key": permissionKey},
	})

	return nil
}

// ListGrants retrieves the permission keys granted to a role.
func (s *Service) ListGrants(ctx context.Context, roleID string) ([]string, error) {
	if _, err := s.repo.GetByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.grants.Keys(ctx, roleID)
}
