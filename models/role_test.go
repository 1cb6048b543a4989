package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("captain")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleAdmin.Can(CapManageTeams))
	assert.True(t, RoleAdmin.Can(CapAssignRoles))
	assert.True(t, RoleAdmin.Can(CapSelectAnyTeam))

	for _, r := range []UserRole{RoleOp, RoleStaff} {
		assert.True(t, r.Can(CapManagePlayers), r)
		assert.False(t, r.Can(CapManageTeams), r)
		assert.False(t, r.Can(CapAssignRoles), r)
		assert.False(t, r.Can(CapSelectAnyTeam), r)
	}

	assert.False(t, RolePlayer.Can(CapManagePlayers))
	assert.False(t, UserRole("ghost").Can(CapManagePlayers))
}

func TestDisciplineValid(t *testing.T) {
	assert.True(t, DisciplineFutsal.Valid())
	assert.True(t, Discipline("Fútbol 11").Valid())
	assert.False(t, Discipline("Fútbol 5").Valid())
	assert.False(t, Discipline("").Valid())
}
