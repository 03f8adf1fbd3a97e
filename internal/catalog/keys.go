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

package catalog

// -----------------------------------------------------------------------------
// Permission Key Constants
// These are the canonical dotted keys stored in the permissions table.
// The catalog is data, not code: the database is the source of truth at
// runtime, and these constants are what SeedCatalog writes into it.
// -----------------------------------------------------------------------------

// Organization administration.
const (
	KeyOrganizationView   = "organization.view"
	KeyOrganizationEdit   = "organization.edit"
	KeyOrganizationDelete = "organization.delete"
)

// User and role assignment management.
const (
	KeyUsersView           = "users.view"
	KeyUsersInvite         = "users.invite"
	KeyUsersEdit           = "users.edit"
	KeyUsersAssignRoles    = "users.assign_roles"
	KeyUsersAssignDistrict = "users.assign_district"
)

// Participant records.
const (
	KeyParticipantsView   = "participants.view"
	KeyParticipantsCreate = "participants.create"
	KeyParticipantsEdit   = "participants.edit"
	KeyParticipantsDelete = "participants.delete"
)

// Finances, budgets and fundraisers.
const (
	KeyFinanceView    = "finance.view"
	KeyFinanceManage  = "finance.manage"
	KeyFinanceApprove = "finance.approve"

	KeyBudgetView   = "budget.view"
	KeyBudgetManage = "budget.manage"

	KeyFundraisersView   = "fundraisers.view"
	KeyFundraisersManage = "fundraisers.manage"
)

// Equipment inventory.
const (
	KeyInventoryView     = "inventory.view"
	KeyInventoryManage   = "inventory.manage"
	KeyInventoryCheckout = "inventory.checkout"
)

// Badges and honors.
const (
	KeyBadgesView    = "badges.view"
	KeyBadgesAward   = "badges.award"
	KeyBadgesApprove = "badges.approve"

	KeyHonorsView    = "honors.view"
	KeyHonorsAward   = "honors.award"
	KeyHonorsApprove = "honors.approve"
)

// Activities, meetings and attendance.
const (
	KeyActivitiesView   = "activities.view"
	KeyActivitiesCreate = "activities.create"
	KeyActivitiesManage = "activities.manage"

	KeyMeetingsView   = "meetings.view"
	KeyMeetingsManage = "meetings.manage"

	KeyAttendanceView   = "attendance.view"
	KeyAttendanceManage = "attendance.manage"
)

// Points and groups.
const (
	KeyPointsView  = "points.view"
	KeyPointsAward = "points.award"

	KeyGroupsView   = "groups.view"
	KeyGroupsManage = "groups.manage"
)

// Carpools.
const (
	KeyCarpoolsView   = "carpools.view"
	KeyCarpoolsManage = "carpools.manage"
)

// Reporting.
const (
	KeyReportsView     = "reports.view"
	KeyReportsGenerate = "reports.generate"
)

// Messaging and announcements.
const (
	KeyCommunicationsView = "communications.view"
	KeyCommunicationsSend = "communications.send"

	KeyAnnouncementsView   = "announcements.view"
	KeyAnnouncementsManage = "announcements.manage"

	KeyNotificationsView   = "notifications.view"
	KeyNotificationsManage = "notifications.manage"
)

// Role administration.
const (
	KeyRolesView   = "roles.view"
	KeyRolesManage = "roles.manage"
)

// Form templates. Per-template capabilities (view/submit/edit/approve) live in
// the form grant overlay; these keys gate the administrative surface only.
const (
	KeyFormsView    = "forms.view"
	KeyFormsManage  = "forms.manage"
	KeyFormsApprove = "forms.approve"
)

// Medication tracking.
const (
	KeyMedicationView       = "medication.view"
	KeyMedicationManage     = "medication.manage"
	KeyMedicationAdminister = "medication.administer"
)

// Shared resources and calendar.
const (
	KeyResourcesView   = "resources.view"
	KeyResourcesManage = "resources.manage"

	KeyCalendarView   = "calendar.view"
	KeyCalendarManage = "calendar.manage"
)

// Data export.
const (
	KeyDataExport    = "data.export"
	KeyDataExportAll = "data.export_all"
)

// Guardian relationships.
const (
	KeyGuardiansView   = "guardians.view"
	KeyGuardiansManage = "guardians.manage"
)

// All returns the full permission catalog as seeded into storage.
func All() []Permission {
	return []Permission{
		{Key: KeyOrganizationView, Name: "View organization", Category: "organization"},
		{Key: KeyOrganizationEdit, Name: "Edit organization settings", Category: "organization"},
		{Key: KeyOrganizationDelete, Name: "Delete organization", Category: "organization"},

		{Key: KeyUsersView, Name: "View users", Category: "users"},
		{Key: KeyUsersInvite, Name: "Invite users", Category: "users"},
		{Key: KeyUsersEdit, Name: "Edit users", Category: "users"},
		{Key: KeyUsersAssignRoles, Name: "Assign roles", Category: "users"},
		{Key: KeyUsersAssignDistrict, Name: "Assign district role", Category: "users"},

		{Key: KeyParticipantsView, Name: "View participants", Category: "participants"},
		{Key: KeyParticipantsCreate, Name: "Create participants", Category: "participants"},
		{Key: KeyParticipantsEdit, Name: "Edit participants", Category: "participants"},
		{Key: KeyParticipantsDelete, Name: "Delete participants", Category: "participants"},

		{Key: KeyFinanceView, Name: "View finances", Category: "finance"},
		{Key: KeyFinanceManage, Name: "Manage finances", Category: "finance"},
		{Key: KeyFinanceApprove, Name: "Approve financial entries", Category: "finance"},

		{Key: KeyBudgetView, Name: "View budgets", Category: "budget"},
		{Key: KeyBudgetManage, Name: "Manage budgets", Category: "budget"},

		{Key: KeyFundraisersView, Name: "View fundraisers", Category: "fundraisers"},
		{Key: KeyFundraisersManage, Name: "Manage fundraisers", Category: "fundraisers"},

		{Key: KeyInventoryView, Name: "View inventory", Category: "inventory"},
		{Key: KeyInventoryManage, Name: "Manage inventory", Category: "inventory"},
		{Key: KeyInventoryCheckout, Name: "Check out equipment", Category: "inventory"},

		{Key: KeyBadgesView, Name: "View badges", Category: "badges"},
		{Key: KeyBadgesAward, Name: "Award badges", Category: "badges"},
		{Key: KeyBadgesApprove, Name: "Approve badge requests", Category: "badges"},

		{Key: KeyHonorsView, Name: "View honors", Category: "honors"},
		{Key: KeyHonorsAward, Name: "Award honors", Category: "honors"},
		{Key: KeyHonorsApprove, Name: "Approve honor requests", Category: "honors"},

		{Key: KeyActivitiesView, Name: "View activities", Category: "activities"},
		{Key: KeyActivitiesCreate, Name: "Create activities", Category: "activities"},
		{Key: KeyActivitiesManage, Name: "Manage activities", Category: "activities"},

		{Key: KeyMeetingsView, Name: "View meetings", Category: "meetings"},
		{Key: KeyMeetingsManage, Name: "Manage meetings", Category: "meetings"},

		{Key: KeyAttendanceView, Name: "View attendance", Category: "attendance"},
		{Key: KeyAttendanceManage, Name: "Record attendance", Category: "attendance"},

		{Key: KeyPointsView, Name: "View points", Category: "points"},
		{Key: KeyPointsAward, Name: "Award points", Category: "points"},

		{Key: KeyGroupsView, Name: "View groups", Category: "groups"},
		{Key: KeyGroupsManage, Name: "Manage groups", Category: "groups"},

		{Key: KeyCarpoolsView, Name: "View carpools", Category: "carpools"},
		{Key: KeyCarpoolsManage, Name: "Manage carpools", Category: "carpools"},

		{Key: KeyReportsView, Name: "View reports", Category: "reports"},
		{Key: KeyReportsGenerate, Name: "Generate reports", Category: "reports"},

		{Key: KeyCommunicationsView, Name: "View communications", Category: "communications"},
		{Key: KeyCommunicationsSend, Name: "Send communications", Category: "communications"},

		{Key: KeyAnnouncementsView, Name: "View announcements", Category: "announcements"},
		{Key: KeyAnnouncementsManage, Name: "Manage announcements", Category: "announcements"},

		{Key: KeyNotificationsView, Name: "View notifications", Category: "notifications"},
		{Key: KeyNotificationsManage, Name: "Manage notifications", Category: "notifications"},

		{Key: KeyRolesView, Name: "View roles", Category: "roles"},
		{Key: KeyRolesManage, Name: "Manage roles", Category: "roles"},

		{Key: KeyFormsView, Name: "View form templates", Category: "forms"},
		{Key: KeyFormsManage, Name: "Manage form templates", Category: "forms"},
		{Key: KeyFormsApprove, Name: "Approve form submissions", Category: "forms"},

		{Key: KeyMedicationView, Name: "View medication records", Category: "medication"},
		{Key: KeyMedicationManage, Name: "Manage medication records", Category: "medication"},
		{Key: KeyMedicationAdminister, Name: "Record medication administration", Category: "medication"},

		{Key: KeyResourcesView, Name: "View resources", Category: "resources"},
		{Key: KeyResourcesManage, Name: "Manage resources", Category: "resources"},

		{Key: KeyCalendarView, Name: "View calendar", Category: "calendar"},
		{Key: KeyCalendarManage, Name: "Manage calendar", Category: "calendar"},

		{Key: KeyDataExport, Name: "Export own data slice", Category: "data"},
		{Key: KeyDataExportAll, Name: "Export full organization data", Category: "data"},

		{Key: KeyGuardiansView, Name: "View guardian links", Category: "guardians"},
		{Key: KeyGuardiansManage, Name: "Manage guardian links", Category: "guardians"},
	}
}

// AllKeys returns every permission key in the catalog.
func AllKeys() []string {
	perms := All()
	keys := make([]string, 0, len(perms))
	for _, p := range perms {
		keys = append(keys, p.Key)
	}
	return keys
}
