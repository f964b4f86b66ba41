package projects_services

import (
	"inovadata/internal/cache"
	"inovadata/internal/config"
	activity_logs "inovadata/internal/features/activity"
	projects_models "inovadata/internal/features/projects/models"
	projects_repositories "inovadata/internal/features/projects/repositories"
	users_services "inovadata/internal/features/users/services"
	cache_utils "inovadata/internal/util/cache"
	"inovadata/internal/util/logger"
)

var projectRepository = &projects_repositories.ProjectRepository{}
var membershipRepository = &projects_repositories.MembershipRepository{}

var projectService = &ProjectService{
	projectRepository:    projectRepository,
	membershipRepository: membershipRepository,
	activityLogService:   activity_logs.GetActivityLogService(),
	projectCache:         newProjectCache(),
	logger:               logger.GetLogger(),
}

var membershipService = &MembershipService{
	membershipRepository: membershipRepository,
	projectService:       projectService,
	userService:          users_services.GetUserService(),
	activityLogService:   activity_logs.GetActivityLogService(),
	logger:               logger.GetLogger(),
}

func GetProjectService() *ProjectService {
	return projectService
}

func GetMembershipService() *MembershipService {
	return membershipService
}

// newProjectCache returns nil under test binaries so the suite runs without
// a Valkey instance.
func newProjectCache() *cache_utils.CacheUtil[projects_models.Project] {
	if config.GetEnv().IsTesting {
		return nil
	}

	return cache_utils.NewCacheUtil[projects_models.Project](cache.GetCache(), "projects:")
}
