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
	"time"
)

// Domain errors
var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrDuplicateRole       = errors.New("role already exists")
	ErrSystemRoleProtected = errors.New("system role cannot be deleted")
	ErrRoleInUse           = errors.New("role is still assigned to members")
	ErrInvalidScope        = errors.New("invalid data scope")
	ErrUnknownPermission   = errors.New("permission key not in catalog")
)

// DataScope controls which slice of organization data a role's holder sees:
// the whole organization, or only records linked to them (e.g. a guardian's
// own children). Which records are "linked" is resolved by a separate
// collaborator; the scope itself is an opaque enum here.
type DataScope string

const (
	ScopeOrganization DataScope = "organization"
	ScopeLinked       DataScope = "linked"
)

// Valid reports whether the scope is one of the two allowed values.
func (s DataScope) Valid() bool {
	return s == ScopeOrganization || s == ScopeLinked
}

// -----------------------------------------------------------------------------
// System Role Names
// These are the canonical names of the seed-provided roles created for every
// organization during provisioning. System roles must not be deleted through
// normal administrative flows.
// -----------------------------------------------------------------------------

const (
	// RoleDistrict is the highest-privilege role, spanning district oversight.
	RoleDistrict = "district"

	// RoleUnitAdmin administers a single organization.
	RoleUnitAdmin = "unitadmin"

	// RoleLeader is the operational staff role.
	RoleLeader = "leader"

	// RoleParent is the guardian role; sees linked records only.
	RoleParent = "parent"
)

// Role is a named, organization-scoped bundle of permission keys plus a data
// scope. (org_id, name) is unique; ID is a surrogate key.
type Role struct {
	ID           string
	OrgID        string
	Name         string
	DisplayName  string
	Description  string
	IsSystemRole bool
	DataScope    DataScope
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines the interface for role persistence
type Repository interface {
	// Create creates a new role. Returns ErrDuplicateRole if (org_id, name)
	// already exists.
	Create(ctx context.Context, role *Role) error

	// GetByID retrieves a role by ID
	GetByID(ctx context.Context, id string) (*Role, error)

	// GetByName retrieves a role by organization and name
	GetByName(ctx context.Context, orgID, name string) (*Role, error)

	// List retrieves all roles of an organization
	List(ctx context.Context, orgID string) ([]*Role, error)

	// UpdateDataScope changes the role's data scope
	UpdateDataScope(ctx context.Context, id string, scope DataScope) error

	// Delete removes a role and, by cascade, its permission and form grants
	Delete(ctx context.Context, id string) error
}

// GrantRepository defines the interface for role-permission grants
type GrantRepository interface {
	// Grant associates a permission key with a role. Granting an existing
	// pair is a no-op.
	Grant(ctx context.Context, roleID, permissionKey string) error

	// Revoke removes the association. Revoking an absent pair is a no-op.
	Revoke(ctx context.Context, roleID, permissionKey string) error

	// Keys retrieves all permission keys granted to a role
	Keys(ctx context.Context, roleID string) ([]string, error)
}
