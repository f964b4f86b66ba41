package projects_services

import (
	"testing"

	projects_dto "inovadata/internal/features/projects/dto"
	projects_testing "inovadata/internal/features/projects/testing"
	users_enums "inovadata/internal/features/users/enums"
	users_testing "inovadata/internal/features/users/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AddMember_WhenOwnerInvites_CreatesMembership(t *testing.T) {
	owner := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	membership, err := GetMembershipService().AddMember(project.ID, owner.User, &projects_dto.AddMemberRequestDTO{
		Email: invitee.User.Email,
		Role:  users_enums.ProjectRoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, invitee.User.ID, membership.UserID)
	assert.Equal(t, users_enums.ProjectRoleEditor, membership.Role)
}

func Test_AddMember_WhenAlreadyMember_ReturnsConflict(t *testing.T) {
	owner := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	service := GetMembershipService()
	request := &projects_dto.AddMemberRequestDTO{
		Email: invitee.User.Email,
		Role:  users_enums.ProjectRoleViewer,
	}

	_, err = service.AddMember(project.ID, owner.User, request)
	require.NoError(t, err)

	_, err = service.AddMember(project.ID, owner.User, request)
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func Test_AddMember_WhenRoleIsOwner_ReturnsInvalidRole(t *testing.T) {
	owner := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = GetMembershipService().AddMember(project.ID, owner.User, &projects_dto.AddMemberRequestDTO{
		Email: invitee.User.Email,
		Role:  users_enums.ProjectRoleOwner,
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func Test_AddMember_WhenViewerInvites_ReturnsNotFound(t *testing.T) {
	owner := users_testing.CreateTestUser()
	viewer := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, viewer.User.ID, users_enums.ProjectRoleViewer)
	require.NoError(t, err)

	_, err = GetMembershipService().AddMember(project.ID, viewer.User, &projects_dto.AddMemberRequestDTO{
		Email: invitee.User.Email,
		Role:  users_enums.ProjectRoleViewer,
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func Test_ChangeMemberRole_WhenTargetIsOwner_Refuses(t *testing.T) {
	owner := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	err = GetMembershipService().ChangeMemberRole(project.ID, owner.User, owner.User.ID, &projects_dto.ChangeMemberRoleRequestDTO{
		Role: users_enums.ProjectRoleViewer,
	})
	assert.ErrorIs(t, err, ErrOwnerImmutable)
}

func Test_ChangeMemberRole_WhenEditorActs_ReturnsNotFound(t *testing.T) {
	owner := users_testing.CreateTestUser()
	editor := users_testing.CreateTestUser()
	viewer := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, editor.User.ID, users_enums.ProjectRoleEditor)
	require.NoError(t, err)
	_, err = projects_testing.AddTestMember(project.ID, viewer.User.ID, users_enums.ProjectRoleViewer)
	require.NoError(t, err)

	err = GetMembershipService().ChangeMemberRole(project.ID, editor.User, viewer.User.ID, &projects_dto.ChangeMemberRoleRequestDTO{
		Role: users_enums.ProjectRoleEditor,
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func Test_RemoveMember_WhenTargetIsOwner_Refuses(t *testing.T) {
	owner := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	err = GetMembershipService().RemoveMember(project.ID, owner.User, owner.User.ID)
	assert.ErrorIs(t, err, ErrOwnerImmutable)
}

func Test_RemoveMember_WhenOwnerRemovesViewer_Succeeds(t *testing.T) {
	owner := users_testing.CreateTestUser()
	viewer := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, viewer.User.ID, users_enums.ProjectRoleViewer)
	require.NoError(t, err)

	require.NoError(t, GetMembershipService().RemoveMember(project.ID, owner.User, viewer.User.ID))

	role, err := membershipRepository.GetUserProjectRole(project.ID, viewer.User.ID)
	require.NoError(t, err)
	assert.Nil(t, role)
}

func Test_GetMembers_WhenMember_ListsAllWithRoles(t *testing.T) {
	owner := users_testing.CreateTestUser()
	editor := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, editor.User.ID, users_enums.ProjectRoleEditor)
	require.NoError(t, err)

	members, err := GetMembershipService().GetMembers(project.ID, editor.User)
	require.NoError(t, err)
	require.Len(t, members, 2)

	assert.Equal(t, users_enums.ProjectRoleOwner, members[0].Role)
	assert.Equal(t, owner.User.ID, members[0].UserID)
	assert.Equal(t, users_enums.ProjectRoleEditor, members[1].Role)
}
