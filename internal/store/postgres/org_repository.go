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
	"github.com/troopdeck/troopdeck/internal/org"
)

// OrgRepository implements org.Repository
type OrgRepository struct {
	db *DB
}

// NewOrgRepository creates a new organization repository
func NewOrgRepository(db *DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// Create creates an organization
func (r *OrgRepository) Create(ctx context.Context, o *org.Organization) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO organizations (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, o.ID, o.Name, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return org.ErrOrgAlreadyExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

// GetByID retrieves an organization
func (r *OrgRepository) GetByID(ctx context.Context, id string) (*org.Organization, error) {
	var o org.Organization

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at FROM organizations WHERE id = $1
	`, id).Scan(&o.ID, &o.Name, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, org.ErrOrgNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &o, nil
}

// List retrieves organizations with pagination
func (r *OrgRepository) List(ctx context.Context, limit, offset int) ([]*org.Organization, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM organizations
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*org.Organization
	for rows.Next() {
		var o org.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &o)
	}

	return orgs, nil
}
