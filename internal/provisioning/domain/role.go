package domain

// Role is the single role a user holds at any time. Role strings are stored
// verbatim in the database, so the constants below are part of the schema.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleMember     Role = "member"
	RoleClient     Role = "client"
)

// Permission names an action a role is allowed to perform. Task-level
// permissions nest strictly (SuperAdmin ⊇ Admin ⊇ Member ⊇ Client);
// administrative permissions are granted only to SuperAdmin and Admin.
type Permission string

const (
	PermViewTasks   Permission = "tasks:view"
	PermEditTasks   Permission = "tasks:edit"
	PermAssignTasks Permission = "tasks:assign"
	PermDeleteTasks Permission = "tasks:delete"

	PermManageAdmins      Permission = "admins:manage"
	PermManageMembers     Permission = "members:manage"
	PermManageRoles       Permission = "roles:manage"
	PermManagePermissions Permission = "permissions:manage"
	PermViewAuditLogs     Permission = "audit:view"
)

// PermissionSet is a fixed lookup of granted permissions.
type PermissionSet map[Permission]struct{}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

var (
	clientPermissions = buildSet(
		PermViewTasks,
	)

	memberPermissions = buildSet(
		PermViewTasks,
		PermEditTasks,
		PermAssignTasks,
	)

	adminPermissions = buildSet(
		PermViewTasks,
		PermEditTasks,
		PermAssignTasks,
		PermDeleteTasks,
		PermManageAdmins,
		PermManageMembers,
		PermViewAuditLogs,
	)

	superAdminPermissions = buildSet(
		PermViewTasks,
		PermEditTasks,
		PermAssignTasks,
		PermDeleteTasks,
		PermManageAdmins,
		PermManageMembers,
		PermManageRoles,
		PermManagePermissions,
		PermViewAuditLogs,
	)
)

func buildSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleMember, RoleClient:
		return true
	}
	return false
}

// Permissions returns the fixed permission set for r. Unknown roles fail
// closed with an empty set.
func (r Role) Permissions() PermissionSet {
	switch r {
	case RoleSuperAdmin:
		return superAdminPermissions
	case RoleAdmin:
		return adminPermissions
	case RoleMember:
		return memberPermissions
	case RoleClient:
		return clientPermissions
	default:
		return PermissionSet{}
	}
}

// Can reports whether r holds permission p.
func (r Role) Can(p Permission) bool {
	return r.Permissions().Has(p)
}

// CanManageRole reports whether actor may change or revoke target's role.
// SuperAdmin manages everything below itself; Admin manages only Member and
// Client. Unknown roles on either side fail closed.
func CanManageRole(actor, target Role) bool {
	switch actor {
	case RoleSuperAdmin:
		return target.Valid() && target != RoleSuperAdmin
	case RoleAdmin:
		return target == RoleMember || target == RoleClient
	default:
		return false
	}
}

// CanSendInvite reports whether actor may mint an invitation for inviteRole.
// Admin invitations are reserved to SuperAdmin so an Admin cannot mint a
// peer; Member and Client invitations need Admin or above.
func CanSendInvite(actor, inviteRole Role) bool {
	switch inviteRole {
	case RoleAdmin:
		return actor == RoleSuperAdmin
	case RoleMember, RoleClient:
		return actor == RoleSuperAdmin || actor == RoleAdmin
	default:
		return false
	}
}
