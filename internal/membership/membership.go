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

// Package membership links users to organizations and records which roles
// each membership holds. Role references live in an explicit join table with
// a foreign key to roles, so "is this role still in use" is a plain existence
// query and referential integrity is enforced by the database.
package membership

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrRoleOrgMismatch    = errors.New("role belongs to a different organization")
)

// Membership is one user's record within one organization. The roles it
// holds are a set: order irrelevant, duplicates meaningless.
type Membership struct {
	ID        string
	OrgID     string
	UserID    string
	CreatedAt time.Time
}

// Actor identifies the principal performing an administrative change,
// carrying the role set their own permission checks evaluate against.
type Actor struct {
	UserID  string
	RoleIDs []string
}

// Repository defines the interface for membership persistence
type Repository interface {
	// Create creates a membership
	Create(ctx context.Context, m *Membership) error

	// GetByID retrieves a membership
	GetByID(ctx context.Context, id string) (*Membership, error)

	// AssignRole adds a role to the membership's set. Assigning an
	// already-held role is a no-op.
	AssignRole(ctx context.Context, membershipID, roleID, grantedBy string) error

	// RevokeRole removes a role from the set
	RevokeRole(ctx context.Context, membershipID, roleID string) error

	// RoleIDs retrieves the membership's held role set
	RoleIDs(ctx context.Context, membershipID string) ([]string, error)

	// RoleInUse reports whether any membership holds the role
	RoleInUse(ctx context.Context, roleID string) (bool, error)
}
