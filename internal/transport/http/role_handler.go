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

package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/troopdeck/troopdeck/internal/role"
)

// CreateRoleRequest represents role creation data
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	DataScope   string `json:"data_scope" validate:"required"`
}

// CreateRole creates a custom role in the principal's organization
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ro, err := h.roleService.CreateRole(
		r.Context(),
		GetOrgID(r.Context()),
		req.Name,
		req.DisplayName,
		req.Description,
		role.DataScope(req.DataScope),
	)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, roleResponse(ro))
}

// GetRole returns one role of the principal's organization
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	ro, err := h.roleInOrg(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, roleResponse(ro))
}

// ListRoles lists the principal organization's roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.ListRoles(r.Context(), GetOrgID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(roles))
	for _, ro := range roles {
		out = append(out, roleResponse(ro))
	}
	respondJSON(w, http.StatusOK, map[string]any{"roles": out})
}

// DeleteRole removes a custom role
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	ro, err := h.roleInOrg(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.roleService.DeleteRole(r.Context(), ro.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "role deleted"})
}

// SetRoleScopeRequest represents a data scope change
type SetRoleScopeRequest struct {
	DataScope string `json:"data_scope" validate:"required"`
}

// SetRoleScope changes a role's data scope
func (h *Handler) SetRoleScope(w http.ResponseWriter, r *http.Request) {
	ro, err := h.roleInOrg(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req SetRoleScopeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.roleService.SetDataScope(r.Context(), ro.ID, role.DataScope(req.DataScope)); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "data scope updated"})
}

// GrantPermissionRequest represents a permission grant
type GrantPermissionRequest struct {
	PermissionKey string `json:"permission_key" validate:"required"`
}

// GrantPermission grants a catalog permission key to a role
func (h *Handler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	ro, err := h.roleInOrg(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req GrantPermissionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.roleService.GrantPermission(r.Context(), ro.ID, req.PermissionKey); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "permission granted"})
}

// RevokePermission removes a permission key from a role
func (h *Handler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	ro, err := h.roleInOrg(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.roleService.RevokePermission(r.Context(), ro.ID, chi.URLParam(r, "key")); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "permission revoked"})
}

// ListRoleGrants lists the permission keys granted to a role
func (h *Handler) ListRoleGrants(w http.ResponseWriter, r *http.Request) {
	ro, err := h.roleInOrg(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	keys, err := h.roleService.ListGrants(r.Context(), ro.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"role_id":         ro.ID,
		"permission_keys": keys,
	})
}

// roleInOrg resolves a role and verifies it belongs to the principal's
// organization. A role in another org is reported as not found, never as
// forbidden, so the response does not leak its existence.
func (h *Handler) roleInOrg(ctx context.Context, roleID string) (*role.Role, error) {
	ro, err := h.roleService.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if ro.OrgID != GetOrgID(ctx) {
		return nil, role.ErrRoleNotFound
	}
	return ro, nil
}

func roleResponse(ro *role.Role) map[string]any {
	return map[string]any{
		"id":             ro.ID,
		"org_id":         ro.OrgID,
		"name":           ro.Name,
		"display_name":   ro.DisplayName,
		"description":    ro.Description,
		"is_system_role": ro.IsSystemRole,
		"data_scope":     string(ro.DataScope),
		"created_at":     ro.CreatedAt,
		"updated_at":     ro.UpdatedAt,
	}
}
