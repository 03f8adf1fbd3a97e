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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/authz"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/role"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, ms *Membership) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *mockRepo) AssignRole(ctx context.Context, membershipID, roleID, grantedBy string) error {
	args := m.Called(ctx, membershipID, roleID, grantedBy)
	return args.Error(0)
}

func (m *mockRepo) RevokeRole(ctx context.Context, membershipID, roleID string) error {
	args := m.Called(ctx, membershipID, roleID)
	return args.Error(0)
}

func (m *mockRepo) RoleIDs(ctx context.Context, membershipID string) ([]string, error) {
	args := m.Called(ctx, membershipID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockRepo) RoleInUse(ctx context.Context, roleID string) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).(bool), args.Error(1)
}

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) Create(ctx context.Context, r *role.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id string) (*role.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*role.Role), args.Error(1)
}

func (m *mockRoleRepo) GetByName(ctx context.Context, orgID, name string) (*role.Role, error) {
	args := m.Called(ctx, orgID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*role.Role), args.Error(1)
}

func (m *mockRoleRepo) List(ctx context.Context, orgID string) ([]*role.Role, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]*role.Role), args.Error(1)
}

func (m *mockRoleRepo) UpdateDataScope(ctx context.Context, id string, scope role.DataScope) error {
	args := m.Called(ctx, id, scope)
	return args.Error(0)
}

func (m *mockRoleRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeChecker grants exactly the keys it is constructed with.
type fakeChecker struct {
	granted map[string]bool
}

func (f *fakeChecker) HasPermission(ctx context.Context, roleIDs []string, permissionKey string) (bool, error) {
	return f.granted[permissionKey], nil
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func newTestService(granted ...string) (*Service, *mockRepo, *mockRoleRepo) {
	repo := new(mockRepo)
	roles := new(mockRoleRepo)
	checker := &fakeChecker{granted: make(map[string]bool)}
	for _, key := range granted {
		checker.granted[key] = true
	}
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Maybe()
	return NewService(repo, roles, checker, auditLogger), repo, roles
}

// TestPurpose: Validates that an actor holding users.assign_roles can assign
// an ordinary role, and the grantor is recorded.
// Scope: Unit Test
// Test Case ID: MEM-01
func TestMembership_Service_AssignRole_Authorized(t *testing.T) {
	svc, repo, roles := newTestService(catalog.KeyUsersAssignRoles)
	ctx := context.Background()

	repo.On("GetByID", ctx, "m-1").Return(&Membership{ID: "m-1", OrgID: "org-1", UserID: "u-2"}, nil)
	roles.On("GetByID", ctx, "r-leader").Return(&role.Role{ID: "r-leader", OrgID: "org-1", Name: role.RoleLeader}, nil)
	repo.On("AssignRole", ctx, "m-1", "r-leader", "u-actor").Return(nil)

	actor := Actor{UserID: "u-actor", RoleIDs: []string{"r-unitadmin"}}
	require.NoError(t, svc.AssignRole(ctx, actor, "m-1", "r-leader"))
	repo.AssertExpectations(t)
}

// TestPurpose: Validates that assigning the district role demands the
// distinct users.assign_district permission; users.assign_roles alone is
// insufficient.
// Scope: Unit Test
// Security: Prevents unit-level admins from elevating anyone to district.
// Test Case ID: MEM-02
func TestMembership_Service_AssignDistrictRole_RequiresElevatedKey(t *testing.T) {
	ctx := context.Background()
	actor := Actor{UserID: "u-actor", RoleIDs: []string{"r-unitadmin"}}

	// Only users.assign_roles: denied.
	svc, repo, roles := newTestService(catalog.KeyUsersAssignRoles)
	repo.On("GetByID", ctx, "m-1").Return(&Membership{ID: "m-1", OrgID: "org-1", UserID: "u-2"}, nil)
	roles.On("GetByID", ctx, "r-district").Return(&role.Role{ID: "r-district", OrgID: "org-1", Name: role.RoleDistrict}, nil)

	err := svc.AssignRole(ctx, actor, "m-1", "r-district")
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
	repo.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// With users.assign_district: allowed.
	svc, repo, roles = newTestService(catalog.KeyUsersAssignDistrict)
	repo.On("GetByID", ctx, "m-1").Return(&Membership{ID: "m-1", OrgID: "org-1", UserID: "u-2"}, nil)
	roles.On("GetByID", ctx, "r-district").Return(&role.Role{ID: "r-district", OrgID: "org-1", Name: role.RoleDistrict}, nil)
	repo.On("AssignRole", ctx, "m-1", "r-district", "u-actor").Return(nil)

	require.NoError(t, svc.AssignRole(ctx, actor, "m-1", "r-district"))
}

// TestPurpose: Validates that a role from another organization cannot be
// assigned, regardless of the actor's permissions.
// Scope: Unit Test
// Test Case ID: MEM-03
func TestMembership_Service_AssignRole_CrossOrgRejected(t *testing.T) {
	svc, repo, roles := newTestService(catalog.KeyUsersAssignRoles, catalog.KeyUsersAssignDistrict)
	ctx := context.Background()

	repo.On("GetByID", ctx, "m-1").Return(&Membership{ID: "m-1", OrgID: "org-1", UserID: "u-2"}, nil)
	roles.On("GetByID", ctx, "r-other").Return(&role.Role{ID: "r-other", OrgID: "org-2", Name: "custom"}, nil)

	err := svc.AssignRole(ctx, Actor{UserID: "u-actor"}, "m-1", "r-other")
	assert.ErrorIs(t, err, ErrRoleOrgMismatch)
	repo.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPurpose: Validates that revocation follows the same authorization path
// as assignment.
// Scope: Unit Test
// Test Case ID: MEM-04
func TestMembership_Service_RevokeRole(t *testing.T) {
	ctx := context.Background()
	actor := Actor{UserID: "u-actor", RoleIDs: []string{"r-unitadmin"}}

	svc, repo, roles := newTestService()
	repo.On("GetByID", ctx, "m-1").Return(&Membership{ID: "m-1", OrgID: "org-1", UserID: "u-2"}, nil)
	roles.On("GetByID", ctx, "r-leader").Return(&role.Role{ID: "r-leader", OrgID: "org-1", Name: role.RoleLeader}, nil)

	err := svc.RevokeRole(ctx, actor, "m-1", "r-leader")
	assert.ErrorIs(t, err, authz.ErrAccessDenied)

	svc, repo, roles = newTestService(catalog.KeyUsersAssignRoles)
	repo.On("GetByID", ctx, "m-1").Return(&Membership{ID: "m-1", OrgID: "org-1", UserID: "u-2"}, nil)
	roles.On("GetByID", ctx, "r-leader").Return(&role.Role{ID: "r-leader", OrgID: "org-1", Name: role.RoleLeader}, nil)
	repo.On("RevokeRole", ctx, "m-1", "r-leader").Return(nil)

	require.NoError(t, svc.RevokeRole(ctx, actor, "m-1", "r-leader"))
}
