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

package org

import (
	"context"
	"fmt"
	"time"

	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/id"
)

// Service provides organization management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new organization service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, auditLogger: auditLogger}
}

// CreateOrganization creates a new organization.
func (s *Service) CreateOrganization(ctx context.Context, name string) (*Organization, error) {
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}

	now := time.Now()
	o := &Organization{
		ID:        id.NewUUIDv7(),
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeOrgCreated,
		OrgID:    o.ID,
		Resource: name,
	})

	return o, nil
}

// GetOrganization retrieves an organization by ID.
func (s *Service) GetOrganization(ctx context.Context, orgID string) (*Organization, error) {
	return s.repo.GetByID(ctx, orgID)
}

// ListOrganizations lists organizations with pagination.
func (s *Service) ListOrganizations(ctx context.Context, limit, offset int) ([]*Organization, error) {
	return s.repo.List(ctx, limit, offset)
}
