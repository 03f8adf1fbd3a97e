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
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

// GetEffectivePermissions returns the principal's evaluated capabilities: the
// union of permission keys across held roles and the effective data scope.
// Principals with no roles get an empty set and the restrictive scope, not an
// error.
func (h *Handler) GetEffectivePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roleIDs := GetRoleIDs(ctx)

	permSet, err := h.evaluator.PermissionSet(ctx, roleIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to evaluate permissions")
		return
	}
	scope, err := h.evaluator.EffectiveScope(ctx, roleIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to evaluate data scope")
		return
	}

	keys := make([]string, 0, len(permSet))
	for k := range permSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if roleIDs == nil {
		roleIDs = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":       GetUserID(ctx),
		"org_id":        GetOrgID(ctx),
		"membership_id": GetMembershipID(ctx),
		"role_ids":      roleIDs,
		"permissions":   keys,
		"data_scope":    string(scope),
	})
}

// GetFormCapabilities returns the principal's evaluated capability matrix for
// one form template, each flag ORed independently across held roles.
func (h *Handler) GetFormCapabilities(w http.ResponseWriter, r *http.Request) {
	t, err := h.templateInOrg(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	caps, err := h.evaluator.FormCapabilities(r.Context(), GetRoleIDs(r.Context()), t.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to evaluate form capabilities")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"template_id":  t.ID,
		"capabilities": caps,
	})
}
