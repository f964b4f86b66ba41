package projects_controllers

import (
	activity_logs "inovadata/internal/features/activity"
	projects_services "inovadata/internal/features/projects/services"
)

var projectController = &ProjectController{
	projectService:     projects_services.GetProjectService(),
	activityLogService: activity_logs.GetActivityLogService(),
}

var membershipController = &MembershipController{
	membershipService: projects_services.GetMembershipService(),
}

func GetProjectController() *ProjectController {
	return projectController
}

func GetMembershipController() *MembershipController {
	return membershipController
}
