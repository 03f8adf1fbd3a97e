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
	"github.com/troopdeck/troopdeck/internal/form"
)

// CreateTemplateRequest represents form template creation data
type CreateTemplateRequest struct {
	Name         string `json:"name" validate:"required"`
	Category     string `json:"category" validate:"required"`
	OrgSensitive bool   `json:"org_sensitive"`
}

// CreateTemplate creates a form template with its default grant matrix
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.formService.CreateTemplate(
		r.Context(),
		GetOrgID(r.Context()),
		req.Name,
		req.Category,
		req.OrgSensitive,
	)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, templateResponse(t))
}

// GetTemplate returns one template of the principal's organization
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.templateInOrg(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, templateResponse(t))
}

// ListTemplates lists the principal organization's templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.formService.ListTemplates(r.Context(), GetOrgID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateResponse(t))
	}
	respondJSON(w, http.StatusOK, map[string]any{"templates": out})
}

// SetFormGrantRequest carries the full four-flag matrix. All flags are
// written together; omitted flags are false.
type SetFormGrantRequest struct {
	View    bool `json:"view"`
	Submit  bool `json:"submit"`
	Edit    bool `json:"edit"`
	Approve bool `json:"approve"`
}

// SetFormGrant writes the capability matrix for (template, role)
func (h *Handler) SetFormGrant(w http.ResponseWriter, r *http.Request) {
	t, err := h.templateInOrg(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req SetFormGrantRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	caps := form.Capabilities{
		View:    req.View,
		Submit:  req.Submit,
		Edit:    req.Edit,
		Approve: req.Approve,
	}
	if err := h.formService.SetGrant(r.Context(), t.ID, chi.URLParam(r, "roleID"), caps); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "form grant updated"})
}

// ListFormGrants lists all grants of a template
func (h *Handler) ListFormGrants(w http.ResponseWriter, r *http.Request) {
	t, err := h.templateInOrg(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	grants, err := h.formService.ListGrants(r.Context(), t.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(grants))
	for _, g := range grants {
		out = append(out, map[string]any{
			"template_id": g.TemplateID,
			"role_id":     g.RoleID,
			"view":        g.View,
			"submit":      g.Submit,
			"edit":        g.Edit,
			"approve":     g.Approve,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"grants": out})
}

// templateInOrg resolves a template and verifies it belongs to the
// principal's organization.
func (h *Handler) templateInOrg(ctx context.Context, templateID string) (*form.Template, error) {
	t, err := h.formService.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.OrgID != GetOrgID(ctx) {
		return nil, form.ErrTemplateNotFound
	}
	return t, nil
}

func templateResponse(t *form.Template) map[string]any {
	return map[string]any{
		"id":            t.ID,
		"org_id":        t.OrgID,
		"name":          t.Name,
		"category":      t.Category,
		"org_sensitive": t.OrgSensitive,
		"created_at":    t.CreatedAt,
	}
}
