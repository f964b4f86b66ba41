package users_services

import (
	"testing"
	"time"

	users_dto "inovadata/internal/features/users/dto"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUpTestUser(t *testing.T) (*users_dto.SignUpRequestDTO, uuid.UUID) {
	t.Helper()

	suffix := uuid.New().String()[:8]
	request := &users_dto.SignUpRequestDTO{
		Username: "user-" + suffix,
		Email:    "user-" + suffix + "@example.com",
		Password: "correct-horse-battery",
	}

	user, err := GetUserService().SignUp(request)
	require.NoError(t, err)

	return request, user.ID
}

func Test_SignUp_WhenUsernameTaken_ReturnsConflict(t *testing.T) {
	request, _ := signUpTestUser(t)

	duplicate := &users_dto.SignUpRequestDTO{
		Username: request.Username,
		Email:    "other-" + uuid.New().String()[:8] + "@example.com",
		Password: "some-password-123",
	}

	_, err := GetUserService().SignUp(duplicate)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func Test_SignIn_WhenValidCredentials_IssuesSession(t *testing.T) {
	request, userID := signUpTestUser(t)

	response, err := GetUserService().SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   request.Password,
	})
	require.NoError(t, err)

	assert.Equal(t, userID, response.UserID)
	assert.Len(t, response.Token, 64)
	assert.True(t, response.ExpiresAt.After(time.Now().Add(6*24*time.Hour)))
}

func Test_SignIn_WhenWrongPassword_SameErrorAsUnknownUser(t *testing.T) {
	request, _ := signUpTestUser(t)
	service := GetUserService()

	_, wrongPassword := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   "not-the-password",
	})
	_, unknownUser := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: "nobody-" + uuid.New().String()[:8],
		Password:   "whatever-password",
	})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func Test_ValidateSession_WhenTokenValid_ResolvesUser(t *testing.T) {
	request, userID := signUpTestUser(t)
	service := GetUserService()

	response, err := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Email,
		Password:   request.Password,
	})
	require.NoError(t, err)

	user, err := service.ValidateSession(response.Token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
}

func Test_ValidateSession_WhenTokenUnknown_FailsClosed(t *testing.T) {
	user, err := GetUserService().ValidateSession("deadbeef")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func Test_ValidateSession_WhenExpired_ReturnsNilAndDeletesSession(t *testing.T) {
	_, userID := signUpTestUser(t)
	service := GetUserService()

	session, err := service.CreateSession(userID)
	require.NoError(t, err)

	err = storage.GetDb().
		Exec("UPDATE sessions SET expires_at = ? WHERE id = ?",
			time.Now().UTC().Add(-time.Hour), session.Token).Error
	require.NoError(t, err)

	user, err := service.ValidateSession(session.Token)
	require.NoError(t, err)
	assert.Nil(t, user)

	var count int64
	require.NoError(t, storage.GetDb().
		Table("sessions").Where("id = ?", session.Token).Count(&count).Error)
	assert.Zero(t, count, "expired session must be removed on sight")
}

func Test_ValidateSession_WhenUserRowGone_DeletesOrphanedSession(t *testing.T) {
	_, userID := signUpTestUser(t)
	service := GetUserService()

	session, err := service.CreateSession(userID)
	require.NoError(t, err)

	require.NoError(t, storage.GetDb().
		Exec("DELETE FROM users WHERE id = ?", userID).Error)

	user, err := service.ValidateSession(session.Token)
	require.NoError(t, err)
	assert.Nil(t, user)

	var count int64
	require.NoError(t, storage.GetDb().
		Table("sessions").Where("id = ?", session.Token).Count(&count).Error)
	assert.Zero(t, count, "orphaned session must be removed on sight")
}

func Test_ValidateSession_WhenUserDeactivated_AllSessionsDead(t *testing.T) {
	request, userID := signUpTestUser(t)
	service := GetUserService()

	response, err := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   request.Password,
	})
	require.NoError(t, err)

	require.NoError(t, storage.GetDb().
		Exec("UPDATE users SET is_active = ? WHERE id = ?", false, userID).Error)

	user, err := service.ValidateSession(response.Token)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func Test_SignOut_WhenCalled_TokenNoLongerValidates(t *testing.T) {
	request, _ := signUpTestUser(t)
	service := GetUserService()

	response, err := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   request.Password,
	})
	require.NoError(t, err)

	require.NoError(t, service.SignOut(response.Token))

	user, err := service.ValidateSession(response.Token)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func Test_ChangePassword_WhenValid_OtherSessionsDie(t *testing.T) {
	request, userID := signUpTestUser(t)
	service := GetUserService()

	current, err := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   request.Password,
	})
	require.NoError(t, err)

	other, err := service.CreateSession(userID)
	require.NoError(t, err)

	user, err := service.ValidateSession(current.Token)
	require.NoError(t, err)
	require.NotNil(t, user)

	err = service.ChangePassword(user, current.Token, &users_dto.ChangePasswordRequestDTO{
		CurrentPassword: request.Password,
		NewPassword:     "a-brand-new-password",
	})
	require.NoError(t, err)

	kept, err := service.ValidateSession(current.Token)
	require.NoError(t, err)
	assert.NotNil(t, kept, "the session that changed the password survives")

	dead, err := service.ValidateSession(other.Token)
	require.NoError(t, err)
	assert.Nil(t, dead)

	_, oldErr := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   request.Password,
	})
	assert.ErrorIs(t, oldErr, ErrInvalidCredentials)

	_, newErr := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   "a-brand-new-password",
	})
	assert.NoError(t, newErr)
}

func Test_ChangePassword_WhenCurrentPasswordWrong_Refused(t *testing.T) {
	request, _ := signUpTestUser(t)
	service := GetUserService()

	current, err := service.SignIn(&users_dto.SignInRequestDTO{
		Identifier: request.Username,
		Password:   request.Password,
	})
	require.NoError(t, err)

	user, err := service.ValidateSession(current.Token)
	require.NoError(t, err)
	require.NotNil(t, user)

	err = service.ChangePassword(user, current.Token, &users_dto.ChangePasswordRequestDTO{
		CurrentPassword: "not-the-password",
		NewPassword:     "a-brand-new-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func Test_DeleteExpiredSessions_RemovesOnlyExpiredRows(t *testing.T) {
	_, userID := signUpTestUser(t)
	service := GetUserService()

	alive, err := service.CreateSession(userID)
	require.NoError(t, err)

	expired, err := service.CreateSession(userID)
	require.NoError(t, err)

	require.NoError(t, storage.GetDb().
		Exec("UPDATE sessions SET expires_at = ? WHERE id = ?",
			time.Now().UTC().Add(-time.Minute), expired.Token).Error)

	require.NoError(t, service.DeleteExpiredSessions())

	stillAlive, err := service.ValidateSession(alive.Token)
	require.NoError(t, err)
	assert.NotNil(t, stillAlive)

	gone, err := service.ValidateSession(expired.Token)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
