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

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/troopdeck/troopdeck/internal/membership"
)

// MembershipRepository implements membership.Repository
type MembershipRepository struct {
	db *DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create creates a membership
func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO memberships (id, org_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, m.ID, m.OrgID, m.UserID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

// GetByID retrieves a membership
func (r *MembershipRepository) GetByID(ctx context.Context, id string) (*membership.Membership, error) {
	var m membership.Membership

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, org_id, user_id, created_at FROM memberships WHERE id = $1
	`, id).Scan(&m.ID, &m.OrgID, &m.UserID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, membership.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// AssignRole adds a role to the membership's set
func (r *MembershipRepository) AssignRole(ctx context.Context, membershipID, roleID, grantedBy string) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO membership_roles (membership_id, role_id, granted_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (membership_id, role_id) DO NOTHING
	`, membershipID, roleID, grantedBy)
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// RevokeRole removes a role from the set
func (r *MembershipRepository) RevokeRole(ctx context.Context, membershipID, roleID string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM membership_roles WHERE membership_id = $1 AND role_id = $2
	`, membershipID, roleID)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

// RoleIDs retrieves the membership's held role set
func (r *MembershipRepository) RoleIDs(ctx context.Context, membershipID string) ([]string, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT role_id FROM membership_roles WHERE membership_id = $1
	`, membershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list membership roles: %w", err)
	}
	defer rows.Close()

	var roleIDs []string
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("failed to scan role id: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}

	return roleIDs, nil
}

// RoleInUse reports whether any membership holds the role
func (r *MembershipRepository) RoleInUse(ctx context.Context, roleID string) (bool, error) {
	var exists bool
	err := r.db.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM membership_roles WHERE role_id = $1)
	`, roleID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role usage: %w", err)
	}
	return exists, nil
}
