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

package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/authz"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/id"
	"github.com/troopdeck/troopdeck/internal/role"
)

// PermissionChecker is the slice of the evaluator this service needs.
type PermissionChecker interface {
	HasPermission(ctx context.Context, roleIDs []string, permissionKey string) (bool, error)
}

// Service provides membership and role-assignment business logic
type Service struct {
	repo        Repository
	roles       role.Repository
	evaluator   PermissionChecker
	auditLogger audit.Logger
}

// NewService creates a new membership service
func NewService(repo Repository, roles role.Repository, evaluator PermissionChecker, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		roles:       roles,
		evaluator:   evaluator,
		auditLogger: auditLogger,
	}
}

// CreateMembership records a user's membership in an organization.
func (s *Service) CreateMembership(ctx context.Context, orgID, userID string) (*Membership, error) {
	if orgID == "" || userID == "" {
		return nil, fmt.Errorf("org id and user id are required")
	}

	m := &Membership{
		ID:        id.NewUUIDv7(),
		OrgID:     orgID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	return m, nil
}

// GetMembership retrieves a membership by ID.
func (s *Service) GetMembership(ctx context.Context, membershipID string) (*Membership, error) {
	return s.repo.GetByID(ctx, membershipID)
}

// RoleIDs retrieves the role set a membership holds.
func (s *Service) RoleIDs(ctx context.Context, membershipID string) ([]string, error) {
	return s.repo.RoleIDs(ctx, membershipID)
}

// AssignRole adds a role to a membership. The actor must hold
// users.assign_roles; granting the district role additionally requires
// users.assign_district. The role must belong to the membership's
// organization.
func (s *Service) AssignRole(ctx context.Context, actor Actor, membershipID, roleID string) error {
	m, r, err := s.loadPair(ctx, membershipID, roleID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, actor, r); err != nil {
		return err
	}

	if err := s.repo.AssignRole(ctx, membershipID, roleID, actor.UserID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleAssigned,
		OrgID:    m.OrgID,
		ActorID:  actor.UserID,
		Resource: r.Name,
		Metadata: map[string]any{"membership_id": membershipID, "role_id": roleID, "user_id": m.UserID},
	})

	return nil
}

// RevokeRole removes a role from a membership, under the same authorization
// rules as AssignRole.
func (s *Service) RevokeRole(ctx context.Context, actor Actor, membershipID, roleID string) error {
	m, r, err := s.loadPair(ctx, membershipID, roleID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, actor, r); err != nil {
		return err
	}

	if err := s.repo.RevokeRole(ctx, membershipID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleRevoked,
		OrgID:    m.OrgID,
		ActorID:  actor.UserID,
		Resource: r.Name,
		Metadata: map[string]any{"membership_id": membershipID, "role_id": roleID, "user_id": m.UserID},
	})

	return nil
}

func (s *Service) loadPair(ctx context.Context, membershipID, roleID string) (*Membership, *role.Role, error) {
	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	if r.OrgID != m.OrgID {
		return nil, nil, ErrRoleOrgMismatch
	}
	return m, r, nil
}

func (s *Service) authorize(ctx context.Context, actor Actor, r *role.Role) error {
	required := catalog.KeyUsersAssignRoles
	if r.Name == role.RoleDistrict {
		required = catalog.KeyUsersAssignDistrict
	}

	allowed, err := s.evaluator.HasPermission(ctx, actor.RoleIDs, required)
	if err != nil {
		return fmt.Errorf("failed to evaluate actor permissions: %w", err)
	}
	if !allowed {
		return authz.ErrAccessDenied
	}
	return nil
}
