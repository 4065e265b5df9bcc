package policy

// Roles known to the platform. Staff roles are ordered by privilege.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
	RoleOwner     = "owner"
)

// Action names every privileged mutation must be checked against.
// Handlers consult this module instead of sprinkling role comparisons.
type Action string

const (
	ActionModerateContent Action = "moderate_content"
	ActionResolveReports  Action = "resolve_reports"
	ActionVerifyPayments  Action = "verify_payments"
	ActionManageUsers     Action = "manage_users"
	ActionViewAdminStats  Action = "view_admin_stats"
)

var grants = map[Action][]string{
	ActionModerateContent: {RoleModerator, RoleAdmin, RoleOwner},
	ActionResolveReports:  {RoleModerator, RoleAdmin, RoleOwner},
	ActionVerifyPayments:  {RoleAdmin, RoleOwner},
	ActionManageUsers:     {RoleAdmin, RoleOwner},
	ActionViewAdminStats:  {RoleAdmin, RoleOwner},
}

// Allowed reports whether role may perform action.
func Allowed(role string, action Action) bool {
	for _, r := range grants[action] {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether role is any moderation-capable role.
func IsStaff(role string) bool {
	return role == RoleModerator || role == RoleAdmin || role == RoleOwner
}

// StaffRoles lists the roles that receive admin-facing notifications,
// e.g. the fan-out on a new manual payment submission.
func StaffRoles() []string {
	return []string{RoleModerator, RoleAdmin, RoleOwner}
}

// ValidRole reports whether r is a role the platform recognises.
func ValidRole(r string) bool {
	switch r {
	case RoleMember, RoleModerator, RoleAdmin, RoleOwner:
		return true
	}
	return false
}
