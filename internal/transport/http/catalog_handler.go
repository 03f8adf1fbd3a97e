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

	"github.com/go-chi/chi/v5"
)

// ListPermissions returns the permission catalog, optionally filtered by the
// category query parameter. The catalog is global reference data, visible to
// every authenticated principal.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.catalogService.ListPermissions(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(perms))
	for _, p := range perms {
		out = append(out, map[string]any{
			"key":         p.Key,
			"name":        p.Name,
			"category":    p.Category,
			"description": p.Description,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"permissions": out})
}

// GetPermission returns a single catalog entry by key
func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalogService.GetPermission(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"key":         p.Key,
		"name":        p.Name,
		"category":    p.Category,
		"description": p.Description,
	})
}
