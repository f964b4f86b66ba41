package users_testing

import (
	"fmt"
	"time"

	users_models "inovadata/internal/features/users/models"
	users_repositories "inovadata/internal/features/users/repositories"
	users_services "inovadata/internal/features/users/services"

	"github.com/google/uuid"
)

type TestUserAccess struct {
	User  *users_models.User
	Token string
}

func CreateTestUser() *TestUserAccess {
	return createUser(false)
}

func CreateTestAdmin() *TestUserAccess {
	return createUser(true)
}

func createUser(isAdmin bool) *TestUserAccess {
	userID := uuid.New()
	suffix := userID.String()[:8]

	hashedPassword := "$2a$10$test"
	user := &users_models.User{
		ID:             userID,
		Username:       fmt.Sprintf("user-%s", suffix),
		Email:          fmt.Sprintf("user-%s@test.com", suffix),
		HashedPassword: &hashedPassword,
		IsActive:       true,
		IsAdmin:        isAdmin,
		CreatedAt:      time.Now().UTC(),
	}

	userRepository := &users_repositories.UserRepository{}
	if err := userRepository.CreateUser(user); err != nil {
		panic(err)
	}

	session, err := users_services.GetUserService().CreateSession(user.ID)
	if err != nil {
		panic(err)
	}

	return &TestUserAccess{User: user, Token: session.Token}
}
