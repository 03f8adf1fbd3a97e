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
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/troopdeck/troopdeck/internal/role"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// RoleRepository implements role.Repository
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create creates a new role
func (r *RoleRepository) Create(ctx context.Context, ro *role.Role) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO roles (
			id, org_id, name, display_name, description, is_system_role, data_scope, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		ro.ID, ro.OrgID, ro.Name, ro.DisplayName, ro.Description,
		ro.IsSystemRole, string(ro.DataScope), ro.CreatedAt, ro.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return role.ErrDuplicateRole
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*role.Role, error) {
	return r.scanOne(r.db.pool.QueryRow(ctx, `
		SELECT id, org_id, name, display_name, description, is_system_role, data_scope, created_at, updated_at
		FROM roles
		WHERE id = $1
	`, id))
}

// GetByName retrieves a role by organization and name
func (r *RoleRepository) GetByName(ctx context.Context, orgID, name string) (*role.Role, error) {
	return r.scanOne(r.db.pool.QueryRow(ctx, `
		SELECT id, org_id, name, display_name, description, is_system_role, data_scope, created_at, updated_at
		FROM roles
		WHERE org_id = $1 AND name = $2
	`, orgID, name))
}

func (r *RoleRepository) scanOne(row pgx.Row) (*role.Role, error) {
	var ro role.Role
	var scopeStr string

	err := row.Scan(
		&ro.ID, &ro.OrgID, &ro.Name, &ro.DisplayName, &ro.Description,
		&ro.IsSystemRole, &scopeStr, &ro.CreatedAt, &ro.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, role.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	ro.DataScope = role.DataScope(scopeStr)
	return &ro, nil
}

// List retrieves all roles of an organization
func (r *RoleRepository) List(ctx context.Context, orgID string) ([]*role.Role, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, org_id, name, display_name, description, is_system_role, data_scope, created_at, updated_at
		FROM roles
		WHERE org_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*role.Role
	for rows.Next() {
		var ro role.Role
		var scopeStr string

		if err := rows.Scan(
			&ro.ID, &ro.OrgID, &ro.Name, &ro.DisplayName, &ro.Description,
			&ro.IsSystemRole, &scopeStr, &ro.CreatedAt, &ro.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}

		ro.DataScope = role.DataScope(scopeStr)
		roles = append(roles, &ro)
	}

	return roles, nil
}

// UpdateDataScope changes the role's data scope
func (r *RoleRepository) UpdateDataScope(ctx context.Context, id string, scope role.DataScope) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE roles SET data_scope = $2, updated_at = $3 WHERE id = $1
	`, id, string(scope), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update data scope: %w", err)
	}
	if result.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}

// Delete removes a role; grant rows cascade
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM roles WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}

// GrantRepository implements role.GrantRepository
type GrantRepository struct {
	db *DB
}

// NewGrantRepository creates a new role-permission grant repository
func NewGrantRepository(db *DB) *GrantRepository {
	return &GrantRepository{db: db}
}

// Grant associates a permission key with a role
func (r *GrantRepository) Grant(ctx context.Context, roleID, permissionKey string) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO role_permissions (role_id, permission_key)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission_key) DO NOTHING
	`, roleID, permissionKey)
	if err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return nil
}

// Revoke removes the association
func (r *GrantRepository) Revoke(ctx context.Context, roleID, permissionKey string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM role_permissions WHERE role_id = $1 AND permission_key = $2
	`, roleID, permissionKey)
	if err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	return nil
}

// Keys retrieves all permission keys granted to a role
func (r *GrantRepository) Keys(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT permission_key FROM role_permissions WHERE role_id = $1
	`, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}
