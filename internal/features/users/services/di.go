package users_services

import (
	users_repositories "inovadata/internal/features/users/repositories"
	"inovadata/internal/util/logger"
)

var userRepository = &users_repositories.UserRepository{}
var sessionRepository = &users_repositories.SessionRepository{}

var userService = &UserService{
	userRepository,
	sessionRepository,
	logger.GetLogger(),
}

var managementService = &ManagementService{
	userRepository,
	sessionRepository,
	logger.GetLogger(),
}

func GetUserService() *UserService {
	return userService
}

func GetManagementService() *ManagementService {
	return managementService
}
