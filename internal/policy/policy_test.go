package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role   string
		action Action
		want   bool
	}{
		{RoleMember, ActionResolveReports, false},
		{RoleModerator, ActionResolveReports, true},
		{RoleAdmin, ActionResolveReports, true},
		{RoleOwner, ActionResolveReports, true},

		{RoleModerator, ActionVerifyPayments, false},
		{RoleAdmin, ActionVerifyPayments, true},
		{RoleOwner, ActionVerifyPayments, true},

		{RoleModerator, ActionManageUsers, false},
		{RoleAdmin, ActionManageUsers, true},

		{RoleMember, ActionViewAdminStats, false},
		{"", ActionResolveReports, false},
		{"superuser", ActionResolveReports, false},
		{RoleAdmin, Action("unknown_action"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Allowed(tc.role, tc.action), "role=%q action=%q", tc.role, tc.action)
	}
}

func TestIsStaff(t *testing.T) {
	assert.False(t, IsStaff(RoleMember))
	assert.True(t, IsStaff(RoleModerator))
	assert.True(t, IsStaff(RoleAdmin))
	assert.True(t, IsStaff(RoleOwner))
	assert.False(t, IsStaff(""))
}

func TestStaffRoles(t *testing.T) {
	roles := StaffRoles()
	assert.ElementsMatch(t, []string{RoleModerator, RoleAdmin, RoleOwner}, roles)
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleMember, RoleModerator, RoleAdmin, RoleOwner} {
		assert.True(t, ValidRole(r), r)
	}
	assert.False(t, ValidRole("creator"))
	assert.False(t, ValidRole(""))
}
