package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
)

func TestAuthorizeMatrix(t *testing.T) {
	group := uint(3)
	anonymous := Anonymous()
	user := Actor{UserID: 1}
	loner := Actor{UserID: 1, StudentID: 1}
	member := Actor{UserID: 1, StudentID: 1, GroupID: &group}
	president := Actor{UserID: 1, StudentID: 1, GroupID: &group, President: true}
	admin := Actor{UserID: 1, Admin: true}

	cases := []struct {
		actor   Actor
		perm    Permission
		allowed bool
	}{
		{anonymous, PermReport, false},
		{user, PermReport, true},
		{user, PermCreateGroup, false},
		{loner, PermCreateGroup, true},
		{member, PermCreateGroup, false},
		{president, PermCreateGroup, false},
		{member, PermManageGroup, false},
		{president, PermManageGroup, true},
		{president, PermManageCourses, true},
		{member, PermCreateInvite, false},
		{president, PermCreateInvite, true},
		{member, PermCreateGroupEvent, false},
		{president, PermCreateGroupEvent, true},
		{user, PermCreateEvent, false},
		{loner, PermCreateEvent, true},
		{user, PermCreateTask, false},
		{loner, PermCreateTask, true},
		{user, PermManageEvents, false},
		{loner, PermManageEvents, true},
		{admin, PermManageTasks, false},
		{member, PermManageTasks, true},
		{user, PermUpdateAssignment, false},
		{loner, PermUpdateAssignment, true},
		{president, PermAdminister, false},
		{admin, PermAdminister, true},
		{admin, Permission("rocket.launch"), false},
	}

	for _, tc := range cases {
		err := Authorize(tc.actor, tc.perm)
		if tc.allowed {
			require.NoError(t, err, "%s as %s", tc.perm, tc.actor.Role())
			continue
		}
		require.Error(t, err, "%s as %s", tc.perm, tc.actor.Role())
		require.True(t, apperror.IsAuthorization(err))
	}
}

func TestActorRole(t *testing.T) {
	group := uint(1)
	require.Equal(t, RoleAnonymous, Anonymous().Role())
	require.Equal(t, RoleMember, Actor{UserID: 1, StudentID: 1}.Role())
	require.Equal(t, RoleMember, Actor{UserID: 1, StudentID: 1, President: true}.Role())
	require.Equal(t, RolePresident, Actor{UserID: 1, StudentID: 1, GroupID: &group, President: true}.Role())
	require.Equal(t, RoleAdmin, Actor{UserID: 1, Admin: true}.Role())

	zero := uint(0)
	require.False(t, Actor{UserID: 1, StudentID: 1, GroupID: &zero}.HasGroup())
}
