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

package provision

import (
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/role"
)

// systemRole describes one seed role and its default permission matrix.
type systemRole struct {
	Name        string
	DisplayName string
	Description string
	DataScope   role.DataScope
	Keys        []string
}

// districtOnlyKeys are never granted below the district role.
var districtOnlyKeys = map[string]bool{
	catalog.KeyOrganizationDelete:  true,
	catalog.KeyUsersAssignDistrict: true,
	catalog.KeyDataExportAll:       true,
}

// unitAdminKeys is the full catalog minus the district-only keys.
func unitAdminKeys() []string {
	var keys []string
	for _, k := range catalog.AllKeys() {
		if !districtOnlyKeys[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// leaderKeys covers day-to-day unit operations: run activities, record
// attendance, award recognitions, handle forms and equipment. No role
// administration, no finance approval.
func leaderKeys() []string {
	return []string{
		catalog.KeyOrganizationView,
		catalog.KeyUsersView,
		catalog.KeyParticipantsView,
		catalog.KeyParticipantsCreate,
		catalog.KeyParticipantsEdit,
		catalog.KeyFinanceView,
		catalog.KeyBudgetView,
		catalog.KeyFundraisersView,
		catalog.KeyFundraisersManage,
		catalog.KeyInventoryView,
		catalog.KeyInventoryManage,
		catalog.KeyInventoryCheckout,
		catalog.KeyBadgesView,
		catalog.KeyBadgesAward,
		catalog.KeyHonorsView,
		catalog.KeyHonorsAward,
		catalog.KeyActivitiesView,
		catalog.KeyActivitiesCreate,
		catalog.KeyActivitiesManage,
		catalog.KeyMeetingsView,
		catalog.KeyMeetingsManage,
		catalog.KeyAttendanceView,
		catalog.KeyAttendanceManage,
		catalog.KeyPointsView,
		catalog.KeyPointsAward,
		catalog.KeyGroupsView,
		catalog.KeyGroupsManage,
		catalog.KeyCarpoolsView,
		catalog.KeyCarpoolsManage,
		catalog.KeyReportsView,
		catalog.KeyReportsGenerate,
		catalog.KeyCommunicationsView,
		catalog.KeyCommunicationsSend,
		catalog.KeyAnnouncementsView,
		catalog.KeyAnnouncementsManage,
		catalog.KeyNotificationsView,
		catalog.KeyFormsView,
		catalog.KeyMedicationView,
		catalog.KeyMedicationAdminister,
		catalog.KeyResourcesView,
		catalog.KeyResourcesManage,
		catalog.KeyCalendarView,
		catalog.KeyCalendarManage,
		catalog.KeyGuardiansView,
	}
}

// parentKeys covers the guardian's own slice: view linked participants,
// submit attendance/carpool availability, see communications. The parent
// role's linked data scope narrows every one of these to linked records.
func parentKeys() []string {
	return []string{
		catalog.KeyOrganizationView,
		catalog.KeyParticipantsView,
		catalog.KeyBadgesView,
		catalog.KeyHonorsView,
		catalog.KeyActivitiesView,
		catalog.KeyMeetingsView,
		catalog.KeyAttendanceView,
		catalog.KeyPointsView,
		catalog.KeyCarpoolsView,
		catalog.KeyCarpoolsManage,
		catalog.KeyCommunicationsView,
		catalog.KeyAnnouncementsView,
		catalog.KeyNotificationsView,
		catalog.KeyFormsView,
		catalog.KeyMedicationView,
		catalog.KeyMedicationManage,
		catalog.KeyResourcesView,
		catalog.KeyCalendarView,
		catalog.KeyDataExport,
		catalog.KeyGuardiansView,
	}
}

// systemRoles returns the four seed roles every organization starts with.
func systemRoles() []systemRole {
	return []systemRole{
		{
			Name:        role.RoleDistrict,
			DisplayName: "District",
			Description: "District-level oversight with every capability",
			DataScope:   role.ScopeOrganization,
			Keys:        catalog.AllKeys(),
		},
		{
			Name:        role.RoleUnitAdmin,
			DisplayName: "Unit Administrator",
			Description: "Administers a single organization",
			DataScope:   role.ScopeOrganization,
			Keys:        unitAdminKeys(),
		},
		{
			Name:        role.RoleLeader,
			DisplayName: "Leader",
			Description: "Operational staff running activities and meetings",
			DataScope:   role.ScopeOrganization,
			Keys:        leaderKeys(),
		},
		{
			Name:        role.RoleParent,
			DisplayName: "Parent / Guardian",
			Description: "Guardian with visibility limited to linked participants",
			DataScope:   role.ScopeLinked,
			Keys:        parentKeys(),
		},
	}
}
