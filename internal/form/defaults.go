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

package form

import "github.com/troopdeck/troopdeck/internal/role"

var fullAccess = Capabilities{View: true, Submit: true, Edit: true, Approve: true}

// approvalCategories lists the categories whose forms carry an approval step,
// which the leader role may perform.
var approvalCategories = map[string]bool{
	CategoryBadgeRequest: true,
	CategoryHonorRequest: true,
}

// DefaultCapabilities returns the seed grant for a system role on a template.
// The policy, applied only when a template has no grant rows yet:
//
//   - district always receives all four flags;
//   - unitadmin receives all four flags except on organization-sensitive
//     templates, which stay district-only;
//   - parent receives view+submit on participant-scoped templates;
//   - leader receives view+submit+edit, plus approve only in
//     approval-requiring categories;
//   - any other category falls back to: leader view+edit, parent view+submit.
//
// Custom roles receive nothing by default; administrators grant them
// explicitly.
func DefaultCapabilities(t *Template, roleName string) Capabilities {
	if roleName == role.RoleDistrict {
		return fullAccess
	}

	sensitive := t.OrgSensitive || t.Category == CategoryOrgSettings

	if roleName == role.RoleUnitAdmin {
		if sensitive {
			return Capabilities{}
		}
		return fullAccess
	}

	if sensitive {
		return Capabilities{}
	}

	switch {
	case t.Category == CategoryParticipant:
		switch roleName {
		case role.RoleLeader:
			return Capabilities{View: true, Submit: true, Edit: true}
		case role.RoleParent:
			return Capabilities{View: true, Submit: true}
		}
	case approvalCategories[t.Category]:
		if roleName == role.RoleLeader {
			return Capabilities{View: true, Submit: true, Edit: true, Approve: true}
		}
	default:
		switch roleName {
		case role.RoleLeader:
			return Capabilities{View: true, Edit: true}
		case role.RoleParent:
			return Capabilities{View: true, Submit: true}
		}
	}

	return Capabilities{}
}
