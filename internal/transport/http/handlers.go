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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/authz"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/form"
	"github.com/troopdeck/troopdeck/internal/membership"
	"github.com/troopdeck/troopdeck/internal/observability/metrics"
	"github.com/troopdeck/troopdeck/internal/org"
	"github.com/troopdeck/troopdeck/internal/provision"
	"github.com/troopdeck/troopdeck/internal/role"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// AuthConfig holds bearer token verification settings
type AuthConfig struct {
	TokenSecret string
	TokenIssuer string
}

// Handler holds HTTP handlers and dependencies
type Handler struct {
	orgService        *org.Service
	roleService       *role.Service
	formService       *form.Service
	membershipService *membership.Service
	catalogService    *catalog.Service
	provisionService  *provision.Service
	evaluator         *authz.Evaluator
	auditLogger       audit.Logger
	authConfig        AuthConfig
	authzMetrics      *metrics.AuthzMetrics
	validate          *validator.Validate
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orgService *org.Service,
	roleService *role.Service,
	formService *form.Service,
	membershipService *membership.Service,
	catalogService *catalog.Service,
	provisionService *provision.Service,
	evaluator *authz.Evaluator,
	auditLogger audit.Logger,
	authConfig AuthConfig,
	authzMetrics *metrics.AuthzMetrics,
) *Handler {
	return &Handler{
		orgService:        orgService,
		roleService:       roleService,
		formService:       formService,
		membershipService: membershipService,
		catalogService:    catalogService,
		provisionService:  provisionService,
		evaluator:         evaluator,
		auditLogger:       auditLogger,
		authConfig:        authConfig,
		authzMetrics:      authzMetrics,
		validate:          validator.New(),
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			// Current principal's effective capabilities
			r.Get("/authz/me", h.GetEffectivePermissions)
			r.Get("/authz/forms/{templateID}", h.GetFormCapabilities)

			// Permission catalog (read-only at runtime)
			r.Get("/permissions", h.ListPermissions)
			r.Get("/permissions/{key}", h.GetPermission)

			// Organizations
			r.Post("/orgs", h.CreateOrganization)
			r.Get("/orgs", h.ListOrganizations)
			r.With(h.RequirePermission(catalog.KeyOrganizationView)).
				Get("/orgs/{orgID}", h.GetOrganization)

			// Role registry
			r.Route("/roles", func(r chi.Router) {
				r.With(h.RequirePermission(catalog.KeyRolesView)).Get("/", h.ListRoles)
				r.With(h.RequirePermission(catalog.KeyRolesManage)).Post("/", h.CreateRole)

				r.Route("/{roleID}", func(r chi.Router) {
					r.With(h.RequirePermission(catalog.KeyRolesView)).Get("/", h.GetRole)
					r.With(h.RequirePermission(catalog.KeyRolesManage)).Delete("/", h.DeleteRole)
					r.With(h.RequirePermission(catalog.KeyRolesManage)).Put("/scope", h.SetRoleScope)

					r.With(h.RequirePermission(catalog.KeyRolesView)).Get("/permissions", h.ListRoleGrants)
					r.With(h.RequirePermission(catalog.KeyRolesManage)).Post("/permissions", h.GrantPermission)
					r.With(h.RequirePermission(catalog.KeyRolesManage)).Delete("/permissions/{key}", h.RevokePermission)
				})
			})

			// Form templates and their grant matrices
			r.Route("/forms", func(r chi.Router) {
				r.With(h.RequirePermission(catalog.KeyFormsView)).Get("/", h.ListTemplates)
				r.With(h.RequirePermission(catalog.KeyFormsManage)).Post("/", h.CreateTemplate)

				r.Route("/{templateID}", func(r chi.Router) {
					r.With(h.RequirePermission(catalog.KeyFormsView)).Get("/", h.GetTemplate)
					r.With(h.RequirePermission(catalog.KeyFormsView)).Get("/grants", h.ListFormGrants)
					r.With(h.RequirePermission(catalog.KeyFormsManage)).Put("/grants/{roleID}", h.SetFormGrant)
				})
			})

			// Memberships and role assignment
			r.Route("/memberships", func(r chi.Router) {
				r.With(h.RequirePermission(catalog.KeyUsersInvite)).Post("/", h.CreateMembership)

				r.Route("/{membershipID}", func(r chi.Router) {
					r.With(h.RequirePermission(catalog.KeyUsersView)).Get("/", h.GetMembership)
					r.With(h.RequirePermission(catalog.KeyUsersView)).Get("/roles", h.ListMembershipRoles)
					// Assignment authorization (assign_roles vs assign_district)
					// is enforced in the membership service, which knows which
					// role is being assigned.
					r.Post("/roles", h.AssignRole)
					r.Delete("/roles/{roleID}", h.RevokeRole)
				})
			})
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "troopdeck",
	})
}
