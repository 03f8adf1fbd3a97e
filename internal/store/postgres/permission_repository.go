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
	"github.com/troopdeck/troopdeck/internal/catalog"
)

// PermissionRepository implements catalog.Repository
type PermissionRepository struct {
	db *DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Upsert inserts the permission or refreshes its display attributes
func (r *PermissionRepository) Upsert(ctx context.Context, p *catalog.Permission) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO permissions (key, name, category, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			description = EXCLUDED.description
	`, p.Key, p.Name, p.Category, p.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert permission: %w", err)
	}
	return nil
}

// GetByKey retrieves a permission by its key
func (r *PermissionRepository) GetByKey(ctx context.Context, key string) (*catalog.Permission, error) {
	var p catalog.Permission

	err := r.db.pool.QueryRow(ctx, `
		SELECT key, name, category, description FROM permissions WHERE key = $1
	`, key).Scan(&p.Key, &p.Name, &p.Category, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return &p, nil
}

// List retrieves all permissions, optionally filtered by category
func (r *PermissionRepository) List(ctx context.Context, category string) ([]*catalog.Permission, error) {
	query := `SELECT key, name, category, description FROM permissions`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, key`

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var perms []*catalog.Permission
	for rows.Next() {
		var p catalog.Permission
		if err := rows.Scan(&p.Key, &p.Name, &p.Category, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, &p)
	}

	return perms, nil
}
