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
	"github.com/troopdeck/troopdeck/internal/membership"
)

// CreateMembershipRequest represents membership creation data
type CreateMembershipRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// CreateMembership records a user's membership in the principal's organization
func (h *Handler) CreateMembership(w http.ResponseWriter, r *http.Request) {
	var req CreateMembershipRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.membershipService.CreateMembership(r.Context(), GetOrgID(r.Context()), req.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, membershipResponse(m))
}

// GetMembership returns one membership of the principal's organization
func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	m, err := h.membershipInOrg(r.Context(), chi.URLParam(r, "membershipID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, membershipResponse(m))
}

// AssignRoleRequest represents a role assignment
type AssignRoleRequest struct {
	RoleID string `json:"role_id" validate:"required"`
}

// AssignRole adds a role to a membership. Authorization is enforced in the
// membership service: users.assign_roles, or users.assign_district when the
// target is the district role.
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	m, err := h.membershipInOrg(r.Context(), chi.URLParam(r, "membershipID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req AssignRoleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	actor := membership.Actor{
		UserID:  GetUserID(r.Context()),
		RoleIDs: GetRoleIDs(r.Context()),
	}
	if err := h.membershipService.AssignRole(r.Context(), actor, m.ID, req.RoleID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "role assigned"})
}

// RevokeRole removes a role from a membership
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	m, err := h.membershipInOrg(r.Context(), chi.URLParam(r, "membershipID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	actor := membership.Actor{
		UserID:  GetUserID(r.Context()),
		RoleIDs: GetRoleIDs(r.Context()),
	}
	if err := h.membershipService.RevokeRole(r.Context(), actor, m.ID, chi.URLParam(r, "roleID")); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "role revoked"})
}

// ListMembershipRoles returns the role set a membership holds
func (h *Handler) ListMembershipRoles(w http.ResponseWriter, r *http.Request) {
	m, err := h.membershipInOrg(r.Context(), chi.URLParam(r, "membershipID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	roleIDs, err := h.membershipService.RoleIDs(r.Context(), m.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if roleIDs == nil {
		roleIDs = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"membership_id": m.ID,
		"role_ids":      roleIDs,
	})
}

// membershipInOrg resolves a membership and verifies it belongs to the
// principal's organization.
func (h *Handler) membershipInOrg(ctx context.Context, membershipID string) (*membership.Membership, error) {
	m, err := h.membershipService.GetMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m.OrgID != GetOrgID(ctx) {
		return nil, membership.ErrMembershipNotFound
	}
	return m, nil
}

func membershipResponse(m *membership.Membership) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"org_id":     m.OrgID,
		"user_id":    m.UserID,
		"created_at": m.CreatedAt,
	}
}
