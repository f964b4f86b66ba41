package projects_services

import (
	"testing"

	projects_dto "inovadata/internal/features/projects/dto"
	projects_testing "inovadata/internal/features/projects/testing"
	users_enums "inovadata/internal/features/users/enums"
	users_testing "inovadata/internal/features/users/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateProject_WhenValidRequest_CreatesOwnerMembership(t *testing.T) {
	owner := users_testing.CreateTestUser()
	service := GetProjectService()

	project, err := service.CreateProject(owner.User, &projects_dto.CreateProjectRequestDTO{
		Name: "fraud-detection",
	})
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, owner.User.ID, project.OwnerID)

	hasRole, err := service.HasRole(project.ID, owner.User.ID, users_enums.ProjectRoleOwner)
	require.NoError(t, err)
	assert.True(t, hasRole)
}

func Test_HasRole_WhenNoMembership_ReturnsFalse(t *testing.T) {
	owner := users_testing.CreateTestUser()
	stranger := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	service := GetProjectService()

	hasRole, err := service.HasRole(
		project.ID,
		stranger.User.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
		users_enums.ProjectRoleViewer,
	)
	require.NoError(t, err)
	assert.False(t, hasRole)
}

func Test_HasRole_WhenRoleOutsideAllowedSet_ReturnsFalse(t *testing.T) {
	owner := users_testing.CreateTestUser()
	viewer := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, viewer.User.ID, users_enums.ProjectRoleViewer)
	require.NoError(t, err)

	service := GetProjectService()

	hasRole, err := service.HasRole(
		project.ID,
		viewer.User.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
	)
	require.NoError(t, err)
	assert.False(t, hasRole)

	hasRole, err = service.HasRole(project.ID, viewer.User.ID, users_enums.ProjectRoleViewer)
	require.NoError(t, err)
	assert.True(t, hasRole)
}

func Test_GetProject_WhenPrivateAndNotMember_ReturnsNotFound(t *testing.T) {
	owner := users_testing.CreateTestUser()
	stranger := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	service := GetProjectService()

	_, _, err = service.GetProject(project.ID, stranger.User)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func Test_GetProject_WhenMissing_ReturnsSameErrorAsDenied(t *testing.T) {
	user := users_testing.CreateTestUser()
	service := GetProjectService()

	_, _, err := service.GetProject(uuid.New(), user.User)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func Test_GetProject_WhenPublicAndNotMember_ReturnsViewerRole(t *testing.T) {
	owner := users_testing.CreateTestUser()
	stranger := users_testing.CreateTestUser()
	service := GetProjectService()

	project, err := service.CreateProject(owner.User, &projects_dto.CreateProjectRequestDTO{
		Name:     "open-data",
		IsPublic: true,
	})
	require.NoError(t, err)

	fetched, role, err := service.GetProject(project.ID, stranger.User)
	require.NoError(t, err)
	assert.Equal(t, project.ID, fetched.ID)
	assert.Equal(t, users_enums.ProjectRoleViewer, role)
}

func Test_UpdateProject_WhenViewer_ReturnsNotFound(t *testing.T) {
	owner := users_testing.CreateTestUser()
	viewer := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, viewer.User.ID, users_enums.ProjectRoleViewer)
	require.NoError(t, err)

	newName := "renamed"
	_, err = GetProjectService().UpdateProject(project.ID, viewer.User, &projects_dto.UpdateProjectRequestDTO{
		Name: &newName,
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func Test_DeleteProject_WhenEditor_ReturnsNotFound(t *testing.T) {
	owner := users_testing.CreateTestUser()
	editor := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, editor.User.ID, users_enums.ProjectRoleEditor)
	require.NoError(t, err)

	err = GetProjectService().DeleteProject(project.ID, editor.User)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func Test_DeleteProject_WhenOwner_RemovesMemberships(t *testing.T) {
	owner := users_testing.CreateTestUser()
	service := GetProjectService()

	project, err := service.CreateProject(owner.User, &projects_dto.CreateProjectRequestDTO{
		Name: "short-lived",
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteProject(project.ID, owner.User))

	_, _, err = service.GetProject(project.ID, owner.User)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	role, err := membershipRepository.GetUserProjectRole(project.ID, owner.User.ID)
	require.NoError(t, err)
	assert.Nil(t, role)
}
