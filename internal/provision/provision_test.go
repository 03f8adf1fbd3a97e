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

package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/form"
	"github.com/troopdeck/troopdeck/internal/role"
)

// In-memory fakes: provisioning touches four repositories at once, so
// hand-rolled stores keep the tests readable.

type memCatalog struct {
	perms map[string]*catalog.Permission
}

func (m *memCatalog) Upsert(ctx context.Context, p *catalog.Permission) error {
	cp := *p
	m.perms[p.Key] = &cp
	return nil
}

func (m *memCatalog) GetByKey(ctx context.Context, key string) (*catalog.Permission, error) {
	p, ok := m.perms[key]
	if !ok {
		return nil, catalog.ErrPermissionNotFound
	}
	return p, nil
}

func (m *memCatalog) List(ctx context.Context, category string) ([]*catalog.Permission, error) {
	var out []*catalog.Permission
	for _, p := range m.perms {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

type memRoles struct {
	byID map[string]*role.Role
}

func (m *memRoles) Create(ctx context.Context, r *role.Role) error {
	for _, existing := range m.byID {
		if existing.OrgID == r.OrgID && existing.Name == r.Name {
			return role.ErrDuplicateRole
		}
	}
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memRoles) GetByID(ctx context.Context, id string) (*role.Role, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, role.ErrRoleNotFound
	}
	return r, nil
}

func (m *memRoles) GetByName(ctx context.Context, orgID, name string) (*role.Role, error) {
	for _, r := range m.byID {
		if r.OrgID == orgID && r.Name == name {
			return r, nil
		}
	}
	return nil, role.ErrRoleNotFound
}

func (m *memRoles) List(ctx context.Context, orgID string) ([]*role.Role, error) {
	var out []*role.Role
	for _, r := range m.byID {
		if r.OrgID == orgID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRoles) UpdateDataScope(ctx context.Context, id string, scope role.DataScope) error {
	r, ok := m.byID[id]
	if !ok {
		return role.ErrRoleNotFound
	}
	r.DataScope = scope
	return nil
}

func (m *memRoles) Delete(ctx context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type memGrants struct {
	keys map[string]map[string]bool // roleID -> key set
}

func (m *memGrants) Grant(ctx context.Context, roleID, permissionKey string) error {
	if m.keys[roleID] == nil {
		m.keys[roleID] = make(map[string]bool)
	}
	m.keys[roleID][permissionKey] = true
	return nil
}

func (m *memGrants) Revoke(ctx context.Context, roleID, permissionKey string) error {
	delete(m.keys[roleID], permissionKey)
	return nil
}

func (m *memGrants) Keys(ctx context.Context, roleID string) ([]string, error) {
	var out []string
	for k := range m.keys[roleID] {
		out = append(out, k)
	}
	return out, nil
}

type memTemplates struct {
	byID map[string]*form.Template
}

func (m *memTemplates) Create(ctx context.Context, t *form.Template) error {
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}

func (m *memTemplates) GetByID(ctx context.Context, id string) (*form.Template, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, form.ErrTemplateNotFound
	}
	return t, nil
}

func (m *memTemplates) ListByOrg(ctx context.Context, orgID string) ([]*form.Template, error) {
	var out []*form.Template
	for _, t := range m.byID {
		if t.OrgID == orgID {
			out = append(out, t)
		}
	}
	return out, nil
}

type memFormGrants struct {
	grants map[string]map[string]form.Capabilities // templateID -> roleID
}

func (m *memFormGrants) Upsert(ctx context.Context, g *form.Grant) error {
	if m.grants[g.TemplateID] == nil {
		m.grants[g.TemplateID] = make(map[string]form.Capabilities)
	}
	m.grants[g.TemplateID][g.RoleID] = g.Capabilities
	return nil
}

func (m *memFormGrants) ListByTemplate(ctx context.Context, templateID string) ([]*form.Grant, error) {
	var out []*form.Grant
	for roleID, caps := range m.grants[templateID] {
		out = append(out, &form.Grant{TemplateID: templateID, RoleID: roleID, Capabilities: caps})
	}
	return out, nil
}

func (m *memFormGrants) HasAny(ctx context.Context, templateID string) (bool, error) {
	return len(m.grants[templateID]) > 0, nil
}

func (m *memFormGrants) Capabilities(ctx context.Context, roleID, templateID string) (form.Capabilities, error) {
	return m.grants[templateID][roleID], nil
}

type noopCache struct{}

func (noopCache) Invalidate(string)     {}
func (noopCache) InvalidateForm(string) {}

type noopAudit struct{}

func (noopAudit) Log(ctx context.Context, event audit.Event) {}

type fixture struct {
	svc       *Service
	catalog   *memCatalog
	roles     *memRoles
	grants    *memGrants
	templates *memTemplates
	formSvc   *form.Service
}

func newFixture() *fixture {
	catalogRepo := &memCatalog{perms: make(map[string]*catalog.Permission)}
	roles := &memRoles{byID: make(map[string]*role.Role)}
	grants := &memGrants{keys: make(map[string]map[string]bool)}
	templates := &memTemplates{byID: make(map[string]*form.Template)}
	formGrants := &memFormGrants{grants: make(map[string]map[string]form.Capabilities)}

	formSvc := form.NewService(templates, formGrants, roles, noopCache{}, noopAudit{})
	svc := NewService(catalogRepo, roles, grants, formSvc, noopCache{}, noopAudit{})

	return &fixture{svc: svc, catalog: catalogRepo, roles: roles, grants: grants, templates: templates, formSvc: formSvc}
}

// TestPurpose: Validates catalog seeding is complete and idempotent.
// Scope: Unit Test
// Test Case ID: PROV-01
func TestProvision_SeedCatalog_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.SeedCatalog(ctx))
	assert.Len(t, f.catalog.perms, len(catalog.AllKeys()))

	require.NoError(t, f.svc.SeedCatalog(ctx))
	assert.Len(t, f.catalog.perms, len(catalog.AllKeys()))
}

// TestPurpose: Validates that provisioning creates the four system roles
// with the expected scopes and protection flag.
// Scope: Unit Test
// Test Case ID: PROV-02
func TestProvision_Organization_CreatesSystemRoles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.ProvisionOrganization(ctx, "org-1"))

	for _, name := range []string{role.RoleDistrict, role.RoleUnitAdmin, role.RoleLeader, role.RoleParent} {
		r, err := f.roles.GetByName(ctx, "org-1", name)
		require.NoError(t, err, name)
		assert.True(t, r.IsSystemRole, name)
	}

	parent, _ := f.roles.GetByName(ctx, "org-1", role.RoleParent)
	assert.Equal(t, role.ScopeLinked, parent.DataScope)

	leader, _ := f.roles.GetByName(ctx, "org-1", role.RoleLeader)
	assert.Equal(t, role.ScopeOrganization, leader.DataScope)
}

// TestPurpose: Validates the privilege split between district and unitadmin:
// the unit admin holds everything except the district-only keys.
// Scope: Unit Test
// Security: organization.delete, users.assign_district and data.export_all
// must never be provisioned below district.
// Test Case ID: PROV-03
func TestProvision_Organization_DistrictOnlyKeys(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.ProvisionOrganization(ctx, "org-1"))

	district, _ := f.roles.GetByName(ctx, "org-1", role.RoleDistrict)
	unitAdmin, _ := f.roles.GetByName(ctx, "org-1", role.RoleUnitAdmin)

	districtKeys, err := f.grants.Keys(ctx, district.ID)
	require.NoError(t, err)
	assert.Len(t, districtKeys, len(catalog.AllKeys()))

	adminKeys := f.grants.keys[unitAdmin.ID]
	assert.False(t, adminKeys[catalog.KeyOrganizationDelete])
	assert.False(t, adminKeys[catalog.KeyUsersAssignDistrict])
	assert.False(t, adminKeys[catalog.KeyDataExportAll])
	assert.True(t, adminKeys[catalog.KeyRolesManage])
	assert.Len(t, adminKeys, len(catalog.AllKeys())-3)
}

// TestPurpose: Validates that re-provisioning never overwrites existing
// roles or their administratively edited grants.
// Scope: Unit Test
// Test Case ID: PROV-04
func TestProvision_Organization_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.ProvisionOrganization(ctx, "org-1"))

	leader, _ := f.roles.GetByName(ctx, "org-1", role.RoleLeader)
	require.NoError(t, f.grants.Revoke(ctx, leader.ID, catalog.KeyBadgesAward))

	require.NoError(t, f.svc.ProvisionOrganization(ctx, "org-1"))

	// The administrative revoke survived, and no duplicate roles appeared.
	assert.False(t, f.grants.keys[leader.ID][catalog.KeyBadgesAward])
	roles, _ := f.roles.List(ctx, "org-1")
	assert.Len(t, roles, 4)
}

// TestPurpose: Validates that provisioning backfills default form grants for
// templates created before the system roles existed.
// Scope: Unit Test
// Test Case ID: PROV-05
func TestProvision_Organization_BackfillsFormDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Template exists before any role does; no grants can be seeded yet.
	require.NoError(t, f.templates.Create(ctx, &form.Template{
		ID:       "tpl-1",
		OrgID:    "org-1",
		Name:     "Health Record",
		Category: form.CategoryParticipant,
	}))

	require.NoError(t, f.svc.ProvisionOrganization(ctx, "org-1"))

	grants, err := f.formSvc.ListGrants(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Len(t, grants, 4)
}
