package users_services

import (
	"testing"
	"time"

	users_dto "inovadata/internal/features/users/dto"
	users_models "inovadata/internal/features/users/models"
	users_repositories "inovadata/internal/features/users/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createManagedUser(t *testing.T, isAdmin bool) (*users_models.User, string) {
	t.Helper()

	userID := uuid.New()
	suffix := userID.String()[:8]

	user := &users_models.User{
		ID:        userID,
		Username:  "managed-" + suffix,
		Email:     "managed-" + suffix + "@example.com",
		IsActive:  true,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}

	repository := &users_repositories.UserRepository{}
	require.NoError(t, repository.CreateUser(user))

	session, err := GetUserService().CreateSession(user.ID)
	require.NoError(t, err)

	return user, session.Token
}

func Test_ListUsers_WhenNotAdmin_Refused(t *testing.T) {
	regular, _ := createManagedUser(t, false)

	_, err := GetManagementService().ListUsers(regular, &users_dto.ListUsersRequestDTO{})
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func Test_DeactivateUser_WhenAdmin_SessionsDieImmediately(t *testing.T) {
	admin, _ := createManagedUser(t, true)
	target, targetToken := createManagedUser(t, false)

	require.NoError(t, GetManagementService().DeactivateUser(admin, target.ID))

	resolved, err := GetUserService().ValidateSession(targetToken)
	require.NoError(t, err)
	assert.Nil(t, resolved, "sessions of a deactivated user must not resolve")
}

func Test_DeactivateUser_WhenTargetIsSelf_Refused(t *testing.T) {
	admin, adminToken := createManagedUser(t, true)

	err := GetManagementService().DeactivateUser(admin, admin.ID)
	assert.Error(t, err)

	resolved, err := GetUserService().ValidateSession(adminToken)
	require.NoError(t, err)
	assert.NotNil(t, resolved)
}

func Test_ActivateUser_WhenAdmin_AccountUsableAgain(t *testing.T) {
	admin, _ := createManagedUser(t, true)
	target, _ := createManagedUser(t, false)

	require.NoError(t, GetManagementService().DeactivateUser(admin, target.ID))
	require.NoError(t, GetManagementService().ActivateUser(admin, target.ID))

	session, err := GetUserService().CreateSession(target.ID)
	require.NoError(t, err)

	resolved, err := GetUserService().ValidateSession(session.Token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, target.ID, resolved.ID)
}
