package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsNestStrictly(t *testing.T) {
	t.Parallel()

	// Every permission a lower role holds, the next role up holds too.
	chain := []Role{RoleClient, RoleMember, RoleAdmin, RoleSuperAdmin}
	for i := 0; i < len(chain)-1; i++ {
		lower, higher := chain[i], chain[i+1]
		for p := range lower.Permissions() {
			require.True(t, higher.Can(p), "%s should inherit %s from %s", higher, p, lower)
		}
		require.Greater(t, len(higher.Permissions()), len(lower.Permissions()))
	}
}

func TestPermissionMatrix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleClient, PermViewTasks, true},
		{RoleClient, PermEditTasks, false},
		{RoleMember, PermEditTasks, true},
		{RoleMember, PermAssignTasks, true},
		{RoleMember, PermDeleteTasks, false},
		{RoleMember, PermManageMembers, false},
		{RoleAdmin, PermDeleteTasks, true},
		{RoleAdmin, PermManageAdmins, true},
		{RoleAdmin, PermManageMembers, true},
		{RoleAdmin, PermViewAuditLogs, true},
		{RoleAdmin, PermManageRoles, false},
		{RoleAdmin, PermManagePermissions, false},
		{RoleSuperAdmin, PermManageRoles, true},
		{RoleSuperAdmin, PermManagePermissions, true},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, tc.role.Can(tc.perm), "%s / %s", tc.role, tc.perm)
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	t.Parallel()

	ghost := Role("ghost")
	require.False(t, ghost.Valid())
	require.Empty(t, ghost.Permissions())
	require.False(t, ghost.Can(PermViewTasks))
	require.False(t, CanManageRole(ghost, RoleClient))
	require.False(t, CanManageRole(RoleSuperAdmin, ghost))
	require.False(t, CanSendInvite(ghost, RoleMember))
	require.False(t, CanSendInvite(RoleSuperAdmin, ghost))
}

func TestCanManageRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		actor, target Role
		want          bool
	}{
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleMember, true},
		{RoleSuperAdmin, RoleClient, true},
		{RoleSuperAdmin, RoleSuperAdmin, false},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleClient, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleSuperAdmin, false},
		{RoleMember, RoleClient, false},
		{RoleClient, RoleClient, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, CanManageRole(tc.actor, tc.target), "%s manages %s", tc.actor, tc.target)
	}
}

func TestCanSendInvite(t *testing.T) {
	t.Parallel()

	cases := []struct {
		actor, invite Role
		want          bool
	}{
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleMember, true},
		{RoleSuperAdmin, RoleClient, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleClient, true},
		{RoleMember, RoleMember, false},
		{RoleMember, RoleClient, false},
		{RoleClient, RoleClient, false},
		{RoleSuperAdmin, RoleSuperAdmin, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, CanSendInvite(tc.actor, tc.invite), "%s invites %s", tc.actor, tc.invite)
	}
}
