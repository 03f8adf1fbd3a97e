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
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/troopdeck/troopdeck/internal/observability/logger"
)

// Organization context resolution:
// the org a request operates in is derived EXCLUSIVELY from the bearer
// token. An X-Org-ID header on an authenticated request is rejected, never
// silently ignored, so a client cannot even attempt to spoof its org.

// Claims is the bearer token payload.
type Claims struct {
	UserID       string   `json:"user_id"`
	OrgID        string   `json:"org_id"`
	MembershipID string   `json:"membership_id"`
	RoleIDs      []string `json:"role_ids"`
	jwt.RegisteredClaims
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// AuthMiddleware validates the bearer token and loads the principal into
// context: user, organization, membership and held role set.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(h.authConfig.TokenSecret), nil
		}, jwt.WithIssuer(h.authConfig.TokenIssuer))
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if claims.UserID == "" || claims.OrgID == "" {
			respondError(w, http.StatusUnauthorized, "token is missing principal claims")
			return
		}

		if r.Header.Get("X-Org-ID") != "" {
			slog.WarnContext(r.Context(), "org header spoofing attempt detected on authenticated route",
				logger.UserID(claims.UserID),
			)
			respondError(w, http.StatusBadRequest, "X-Org-ID header is not allowed on authenticated requests; organization is derived from the token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, orgIDKey, claims.OrgID)
		ctx = context.WithValue(ctx, membershipIDKey, claims.MembershipID)
		ctx = context.WithValue(ctx, roleIDsKey, claims.RoleIDs)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission guards a route behind a permission key. The check is a
// union across the principal's held roles; an empty role set is denied.
func (h *Handler) RequirePermission(permissionKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleIDs := GetRoleIDs(r.Context())

			allowed, err := h.evaluator.HasPermission(r.Context(), roleIDs, permissionKey)
			if err != nil {
				slog.ErrorContext(r.Context(), "permission evaluation failed",
					logger.Error(err),
					logger.PermissionKey(permissionKey),
				)
				respondError(w, http.StatusInternalServerError, "failed to evaluate permissions")
				return
			}
			if h.authzMetrics != nil {
				h.authzMetrics.RecordCheck(r.Context(), permissionKey, allowed)
			}
			if !allowed {
				respondError(w, http.StatusForbidden, "permission denied: "+permissionKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
