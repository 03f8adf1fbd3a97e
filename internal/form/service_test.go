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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/role"
)

type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) Create(ctx context.Context, t *Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, id string) (*Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Template), args.Error(1)
}

func (m *mockTemplateRepo) ListByOrg(ctx context.Context, orgID string) ([]*Template, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]*Template), args.Error(1)
}

type mockGrantRepo struct {
	mock.Mock
}

func (m *mockGrantRepo) Upsert(ctx context.Context, g *Grant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGrantRepo) ListByTemplate(ctx context.Context, templateID string) ([]*Grant, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).([]*Grant), args.Error(1)
}

func (m *mockGrantRepo) HasAny(ctx context.Context, templateID string) (bool, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).(bool), args.Error(1)
}

func (m *mockGrantRepo) Capabilities(ctx context.Context, roleID, templateID string) (Capabilities, error) {
	args := m.Called(ctx, roleID, templateID)
	return args.Get(0).(Capabilities), args.Error(1)
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

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) InvalidateForm(roleID string) {
	c.invalidated = append(c.invalidated, roleID)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func newTestService() (*Service, *mockTemplateRepo, *mockGrantRepo, *mockRoleRepo, *recordingCache) {
	templates := new(mockTemplateRepo)
	grants := new(mockGrantRepo)
	roles := new(mockRoleRepo)
	cache := &recordingCache{}
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Maybe()
	svc := NewService(templates, grants, roles, cache, auditLogger)
	return svc, templates, grants, roles, cache
}

// TestPurpose: Validates that template creation seeds the default grant
// matrix for the system roles that exist in the organization.
// Scope: Unit Test
// Test Case ID: FORM-02
func TestForm_Service_CreateTemplate_PopulatesDefaults(t *testing.T) {
	svc, templates, grants, roles, cache := newTestService()
	ctx := context.Background()

	templates.On("Create", ctx, mock.Anything).Return(nil)
	grants.On("HasAny", ctx, mock.Anything).Return(false, nil)

	roles.On("GetByName", ctx, "org-1", role.RoleDistrict).Return(&role.Role{ID: "r-district", Name: role.RoleDistrict}, nil)
	roles.On("GetByName", ctx, "org-1", role.RoleUnitAdmin).Return(&role.Role{ID: "r-unitadmin", Name: role.RoleUnitAdmin}, nil)
	roles.On("GetByName", ctx, "org-1", role.RoleLeader).Return(&role.Role{ID: "r-leader", Name: role.RoleLeader}, nil)
	roles.On("GetByName", ctx, "org-1", role.RoleParent).Return(&role.Role{ID: "r-parent", Name: role.RoleParent}, nil)

	grants.On("Upsert", ctx, mock.MatchedBy(func(g *Grant) bool {
		return g.RoleID == "r-district" && g.View && g.Submit && g.Edit && g.Approve
	})).Return(nil)
	grants.On("Upsert", ctx, mock.MatchedBy(func(g *Grant) bool {
		return g.RoleID == "r-unitadmin" && g.View && g.Approve
	})).Return(nil)
	grants.On("Upsert", ctx, mock.MatchedBy(func(g *Grant) bool {
		return g.RoleID == "r-leader" && g.View && g.Submit && g.Edit && !g.Approve
	})).Return(nil)
	grants.On("Upsert", ctx, mock.MatchedBy(func(g *Grant) bool {
		return g.RoleID == "r-parent" && g.View && g.Submit && !g.Edit && !g.Approve
	})).Return(nil)

	tpl, err := svc.CreateTemplate(ctx, "org-1", "Health Record", CategoryParticipant, false)
	require.NoError(t, err)
	assert.Equal(t, "org-1", tpl.OrgID)
	grants.AssertNumberOfCalls(t, "Upsert", 4)
	assert.ElementsMatch(t, []string{"r-district", "r-unitadmin", "r-leader", "r-parent"}, cache.invalidated)
}

// TestPurpose: Validates that default population is a one-time bootstrap:
// once any grant row exists it never overwrites administrative edits.
// Scope: Unit Test
// Test Case ID: FORM-03
func TestForm_Service_PopulateDefaults_NoOpWhenSeeded(t *testing.T) {
	svc, _, grants, roles, _ := newTestService()
	ctx := context.Background()

	grants.On("HasAny", ctx, "tpl-1").Return(true, nil)

	err := svc.PopulateDefaults(ctx, &Template{ID: "tpl-1", OrgID: "org-1", Category: CategoryParticipant})
	require.NoError(t, err)
	grants.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	roles.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything, mock.Anything)
}

// TestPurpose: Validates that missing system roles are skipped rather than
// failing the whole population.
// Scope: Unit Test
// Test Case ID: FORM-04
func TestForm_Service_PopulateDefaults_SkipsMissingRoles(t *testing.T) {
	svc, _, grants, roles, _ := newTestService()
	ctx := context.Background()

	grants.On("HasAny", ctx, "tpl-1").Return(false, nil)
	roles.On("GetByName", ctx, "org-1", role.RoleDistrict).Return(&role.Role{ID: "r-district", Name: role.RoleDistrict}, nil)
	roles.On("GetByName", ctx, "org-1", role.RoleUnitAdmin).Return(nil, role.ErrRoleNotFound)
	roles.On("GetByName", ctx, "org-1", role.RoleLeader).Return(nil, role.ErrRoleNotFound)
	roles.On("GetByName", ctx, "org-1", role.RoleParent).Return(nil, role.ErrRoleNotFound)
	grants.On("Upsert", ctx, mock.MatchedBy(func(g *Grant) bool {
		return g.RoleID == "r-district"
	})).Return(nil)

	err := svc.PopulateDefaults(ctx, &Template{ID: "tpl-1", OrgID: "org-1", Category: CategoryParticipant})
	require.NoError(t, err)
	grants.AssertNumberOfCalls(t, "Upsert", 1)
}

// TestPurpose: Validates that SetGrant rejects a role from another
// organization without writing, reporting it as not found.
// Scope: Unit Test
// Security: Cross-org grants would leak form data between organizations.
// Test Case ID: FORM-05
func TestForm_Service_SetGrant_CrossOrgRejected(t *testing.T) {
	svc, templates, grants, roles, _ := newTestService()
	ctx := context.Background()

	templates.On("GetByID", ctx, "tpl-1").Return(&Template{ID: "tpl-1", OrgID: "org-1"}, nil)
	roles.On("GetByID", ctx, "r-other").Return(&role.Role{ID: "r-other", OrgID: "org-2"}, nil)

	err := svc.SetGrant(ctx, "tpl-1", "r-other", Capabilities{View: true})
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
	grants.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// TestPurpose: Validates that a grant write invalidates the role's cached
// form capabilities before returning.
// Scope: Unit Test
// Test Case ID: FORM-06
func TestForm_Service_SetGrant_InvalidatesCache(t *testing.T) {
	svc, templates, grants, roles, cache := newTestService()
	ctx := context.Background()

	templates.On("GetByID", ctx, "tpl-1").Return(&Template{ID: "tpl-1", OrgID: "org-1", Name: "Health Record"}, nil)
	roles.On("GetByID", ctx, "r-1").Return(&role.Role{ID: "r-1", OrgID: "org-1"}, nil)
	grants.On("Upsert", ctx, mock.Anything).Return(nil)

	require.NoError(t, svc.SetGrant(ctx, "tpl-1", "r-1", Capabilities{View: true, Approve: true}))
	assert.Equal(t, []string{"r-1"}, cache.invalidated)
}
