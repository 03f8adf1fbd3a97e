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

// Package authz implements the permission evaluator: given the set of roles a
// principal holds within an organization, it answers whether a capability is
// granted, over what data slice, and which form capabilities apply.
//
// The evaluator is pure and read-only. Roles are additive — the answer is
// always a union across held roles, and there is no deny grant. Write-time
// APIs are strict; evaluation is lenient: an empty role set or a dangling
// role reference yields the maximally restrictive answer, never an error.
package authz

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/troopdeck/troopdeck/internal/form"
	"github.com/troopdeck/troopdeck/internal/role"
)

// ErrAccessDenied is returned by callers (middleware, services) when an
// evaluated permission check comes back negative. The evaluator itself never
// returns it.
var ErrAccessDenied = errors.New("access denied")

// RoleReader resolves a role by ID.
type RoleReader interface {
	GetByID(ctx context.Context, id string) (*role.Role, error)
}

// GrantReader lists the permission keys granted to a role.
type GrantReader interface {
	Keys(ctx context.Context, roleID string) ([]string, error)
}

// FormGrantReader resolves the capability matrix for (role, template).
type FormGrantReader interface {
	Capabilities(ctx context.Context, roleID, templateID string) (form.Capabilities, error)
}

// roleEntry is the cached evaluation state of one role.
type roleEntry struct {
	perms map[string]struct{}
	scope role.DataScope
}

type formKey struct {
	roleID     string
	templateID string
}

// Evaluator computes permission unions, effective data scope and form
// capability matrices for a principal's held role set. Safe for concurrent
// use; it mutates nothing but its caches, which are themselves thread-safe.
type Evaluator struct {
	roles  RoleReader
	grants GrantReader
	forms  FormGrantReader

	roleCache *lru.Cache[string, roleEntry]
	formCache *lru.Cache[formKey, form.Capabilities]
}

// DefaultCacheSize bounds the per-role caches. Role counts are small (a
// handful of system roles plus custom roles per organization), so this is
// generous.
const DefaultCacheSize = 4096

// NewEvaluator creates a new evaluator.
func NewEvaluator(roles RoleReader, grants GrantReader, forms FormGrantReader, cacheSize int) (*Evaluator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	roleCache, err := lru.New[string, roleEntry](cacheSize)
	if err != nil {
		return nil, err
	}
	formCache, err := lru.New[formKey, form.Capabilities](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Evaluator{
		roles:     roles,
		grants:    grants,
		forms:     forms,
		roleCache: roleCache,
		formCache: formCache,
	}, nil
}

// resolve loads one role's permission set and scope, via the cache. A role ID
// that no longer exists returns ok=false and is NOT cached, so a later
// creation is visible immediately.
func (e *Evaluator) resolve(ctx context.Context, roleID string) (roleEntry, bool, error) {
	if entry, ok := e.roleCache.Get(roleID); ok {
		return entry, true, nil
	}

	r, err := e.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			// Stale reference: skip the role rather than failing the whole
			// evaluation. A dangling ID must not block every other check
			// for this principal.
			return roleEntry{}, false, nil
		}
		return roleEntry{}, false, err
	}

	keys, err := e.grants.Keys(ctx, roleID)
	if err != nil {
		return roleEntry{}, false, err
	}

	perms := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		perms[k] = struct{}{}
	}

	entry := roleEntry{perms: perms, scope: r.DataScope}
	e.roleCache.Add(roleID, entry)
	return entry, true, nil
}

// HasPermission reports whether any held role grants the permission key.
// An empty role set has no capabilities.
func (e *Evaluator) HasPermission(ctx context.Context, roleIDs []string, permissionKey string) (bool, error) {
	for _, roleID := range roleIDs {
		entry, ok, err := e.resolve(ctx, roleID)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if _, granted := entry.perms[permissionKey]; granted {
			return true, nil
		}
	}
	return false, nil
}

// PermissionSet returns the union of permission keys across the held roles.
func (e *Evaluator) PermissionSet(ctx context.Context, roleIDs []string) (map[string]struct{}, error) {
	union := make(map[string]struct{})
	for _, roleID := range roleIDs {
		entry, ok, err := e.resolve(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for k := range entry.perms {
			union[k] = struct{}{}
		}
	}
	return union, nil
}

// EffectiveScope returns the widest data scope across the held roles:
// organization-wide if any role carries it, linked otherwise. The empty role
// set resolves to the restrictive default. A user who is simultaneously a
// parent (linked) and a leader (organization) sees the full organization
// dataset.
func (e *Evaluator) EffectiveScope(ctx context.Context, roleIDs []string) (role.DataScope, error) {
	for _, roleID := range roleIDs {
		entry, ok, err := e.resolve(ctx, roleID)
		if err != nil {
			return role.ScopeLinked, err
		}
		if !ok {
			continue
		}
		if entry.scope == role.ScopeOrganization {
			return role.ScopeOrganization, nil
		}
	}
	return role.ScopeLinked, nil
}

// FormCapabilities ORs each of the four flags independently across every
// grant matching (template, held role). Roles without a grant row contribute
// the zero matrix.
func (e *Evaluator) FormCapabilities(ctx context.Context, roleIDs []string, templateID string) (form.Capabilities, error) {
	var union form.Capabilities
	for _, roleID := range roleIDs {
		key := formKey{roleID: roleID, templateID: templateID}
		caps, ok := e.formCache.Get(key)
		if !ok {
			var err error
			caps, err = e.forms.Capabilities(ctx, roleID, templateID)
			if err != nil {
				return form.Capabilities{}, err
			}
			e.formCache.Add(key, caps)
		}
		union = union.Union(caps)
	}
	return union, nil
}

// Invalidate drops all cached state for a role: its permission set, its
// scope, and its form capabilities. Must be called synchronously by every
// write that touches the role or its grants, before the write returns to its
// caller.
func (e *Evaluator) Invalidate(roleID string) {
	e.roleCache.Remove(roleID)
	e.InvalidateForm(roleID)
}

// InvalidateForm drops cached form capabilities for a role.
func (e *Evaluator) InvalidateForm(roleID string) {
	for _, key := range e.formCache.Keys() {
		if key.roleID == roleID {
			e.formCache.Remove(key)
		}
	}
}
