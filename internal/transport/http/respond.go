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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/troopdeck/troopdeck/internal/authz"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/form"
	"github.com/troopdeck/troopdeck/internal/membership"
	"github.com/troopdeck/troopdeck/internal/org"
	"github.com/troopdeck/troopdeck/internal/role"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps domain sentinel errors to HTTP status codes.
// Writes are strict, so every rejected write surfaces with a precise status;
// anything unrecognized is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, role.ErrRoleNotFound),
		errors.Is(err, form.ErrTemplateNotFound),
		errors.Is(err, org.ErrOrgNotFound),
		errors.Is(err, membership.ErrMembershipNotFound),
		errors.Is(err, catalog.ErrPermissionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, role.ErrDuplicateRole),
		errors.Is(err, form.ErrDuplicateTemplate),
		errors.Is(err, org.ErrOrgAlreadyExists),
		errors.Is(err, role.ErrRoleInUse):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, role.ErrSystemRoleProtected),
		errors.Is(err, authz.ErrAccessDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, role.ErrInvalidScope),
		errors.Is(err, role.ErrUnknownPermission),
		errors.Is(err, membership.ErrRoleOrgMismatch):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func getIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. Returns false after writing the error response.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}
