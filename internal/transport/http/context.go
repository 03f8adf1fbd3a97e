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

import "context"

type contextKey string

const (
	userIDKey       contextKey = "user_id"
	orgIDKey        contextKey = "org_id"
	membershipIDKey contextKey = "membership_id"
	roleIDsKey      contextKey = "role_ids"
)

// GetUserID retrieves the authenticated user ID from context.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}

// GetOrgID retrieves the organization ID from context.
func GetOrgID(ctx context.Context) string {
	if val, ok := ctx.Value(orgIDKey).(string); ok {
		return val
	}
	return ""
}

// GetMembershipID retrieves the membership ID from context.
func GetMembershipID(ctx context.Context) string {
	if val, ok := ctx.Value(membershipIDKey).(string); ok {
		return val
	}
	return ""
}

// GetRoleIDs retrieves the principal's held role set from context. A nil
// slice means no roles, which evaluates to no capabilities.
func GetRoleIDs(ctx context.Context) []string {
	if val, ok := ctx.Value(roleIDsKey).([]string); ok {
		return val
	}
	return nil
}
