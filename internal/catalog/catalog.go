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

// Package catalog holds the fixed vocabulary of capabilities the platform
// understands. Permissions are reference data: created by seeding, never
// deleted in normal operation, and looked up by every grant write.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrPermissionNotFound = errors.New("permission not found")
)

// Permission is one discrete capability, identified by a dotted key such as
// "badges.approve". Category groups keys for administrative UIs only; it
// carries no authorization semantics.
type Permission struct {
	Key         string
	Name        string
	Category    string
	Description string
}

// Repository defines the interface for permission catalog persistence
type Repository interface {
	// Upsert inserts the permission or updates its display attributes.
	Upsert(ctx context.Context, p *Permission) error

	// GetByKey retrieves a permission by its key
	GetByKey(ctx context.Context, key string) (*Permission, error)

	// List retrieves all permissions, optionally filtered by category.
	// An empty category returns the full catalog.
	List(ctx context.Context, category string) ([]*Permission, error)
}

// Service provides read access to the permission catalog
type Service struct {
	repo Repository
}

// NewService creates a new catalog service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListPermissions returns the catalog, optionally filtered by category.
func (s *Service) ListPermissions(ctx context.Context, category string) ([]*Permission, error) {
	perms, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}

// GetPermission retrieves a single permission by key.
func (s *Service) GetPermission(ctx context.Context, key string) (*Permission, error) {
	return s.repo.GetByKey(ctx, key)
}
