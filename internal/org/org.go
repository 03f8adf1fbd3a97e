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
	"errors"
	"time"
)

// Domain errors
var (
	ErrOrgNotFound      = errors.New("organization not found")
	ErrOrgAlreadyExists = errors.New("organization already exists")
)

// Organization status
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Organization is the tenant boundary: every role, form template and
// membership belongs to exactly one organization.
type Organization struct {
	ID        string
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines the interface for organization persistence
type Repository interface {
	// Create creates an organization. Returns ErrOrgAlreadyExists on a
	// name conflict.
	Create(ctx context.Context, o *Organization) error

	// GetByID retrieves an organization
	GetByID(ctx context.Context, id string) (*Organization, error)

	// List retrieves organizations with pagination
	List(ctx context.Context, limit, offset int) ([]*Organization, error)
}
