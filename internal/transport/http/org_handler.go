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
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/troopdeck/troopdeck/internal/observability/logger"
	"github.com/troopdeck/troopdeck/internal/org"
)

// CreateOrganizationRequest represents organization creation data
type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateOrganization creates an organization and provisions its system role
// set. Provisioning is part of creation: an organization without its four
// system roles is not usable.
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	o, err := h.orgService.CreateOrganization(r.Context(), req.Name)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.provisionService.ProvisionOrganization(r.Context(), o.ID); err != nil {
		slog.ErrorContext(r.Context(), "failed to provision organization",
			logger.Error(err),
			logger.OrgID(o.ID),
		)
		respondError(w, http.StatusInternalServerError, "organization created but provisioning failed; re-run provisioning")
		return
	}

	respondJSON(w, http.StatusCreated, orgResponse(o))
}

// GetOrganization returns an organization. Only the principal's own
// organization is visible.
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID != GetOrgID(r.Context()) {
		respondError(w, http.StatusNotFound, org.ErrOrgNotFound.Error())
		return
	}

	o, err := h.orgService.GetOrganization(r.Context(), orgID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orgResponse(o))
}

// ListOrganizations lists organizations with pagination
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orgs, err := h.orgService.ListOrganizations(r.Context(), limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, orgResponse(o))
	}
	respondJSON(w, http.StatusOK, map[string]any{"organizations": out})
}

func orgResponse(o *org.Organization) map[string]any {
	return map[string]any{
		"id":         o.ID,
		"name":       o.Name,
		"status":     o.Status,
		"created_at": o.CreatedAt,
		"updated_at": o.UpdatedAt,
	}
}
