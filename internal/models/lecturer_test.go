package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapabilitiesMapping(t *testing.T) {
	require.Nil(t, Capabilities(RoleCodeLecturer))
	require.Equal(t, []RaterRole{RaterRoleAssessor}, Capabilities(RoleCodeAssessor))
	require.Equal(t, []RaterRole{RaterRoleSupervisor, RaterRoleAssessor}, Capabilities(RoleCodeBoth))
	require.Equal(t, []RaterRole{RaterRoleSupervisor}, Capabilities(RoleCodeSupervisor))
	require.Equal(t, []RaterRole{RaterRoleCoordinator}, Capabilities(RoleCodeCoordinator))
}

func TestCanActAs(t *testing.T) {
	require.True(t, CanActAs(RoleCodeBoth, RaterRoleSupervisor))
	require.True(t, CanActAs(RoleCodeBoth, RaterRoleAssessor))
	require.False(t, CanActAs(RoleCodeBoth, RaterRoleCoordinator))
	require.False(t, CanActAs(RoleCodeLecturer, RaterRoleSupervisor))
	require.True(t, CanActAs(RoleCodeCoordinator, RaterRoleCoordinator))
}

func TestGroupAssignedTo(t *testing.T) {
	supervisor := uint(7)
	assessor := uint(9)
	group := ProjectGroup{SupervisorID: &supervisor, AssessorID: &assessor}

	require.True(t, group.AssignedTo(7, RaterRoleSupervisor))
	require.False(t, group.AssignedTo(9, RaterRoleSupervisor))
	require.True(t, group.AssignedTo(9, RaterRoleAssessor))
	require.True(t, group.AssignedTo(1, RaterRoleCoordinator), "coordinators bypass assignment")
	require.False(t, ProjectGroup{}.AssignedTo(7, RaterRoleSupervisor))
}

func TestRubricEffectiveMaxScore(t *testing.T) {
	require.Equal(t, 10, Rubric{}.EffectiveMaxScore())
	require.Equal(t, 10, Rubric{MaxScore: -1}.EffectiveMaxScore())
	require.Equal(t, 5, Rubric{MaxScore: 5}.EffectiveMaxScore())
}
