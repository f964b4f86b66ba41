package experiments_services

import (
	activity_logs "inovadata/internal/features/activity"
	datasets_services "inovadata/internal/features/datasets/services"
	experiments_repositories "inovadata/internal/features/experiments/repositories"
	projects_services "inovadata/internal/features/projects/services"
	"inovadata/internal/util/logger"
)

var experimentRepository = &experiments_repositories.ExperimentRepository{}
var resultRepository = &experiments_repositories.ResultRepository{}

var experimentService = &ExperimentService{
	experimentRepository: experimentRepository,
	resultRepository:     resultRepository,
	projectService:       projects_services.GetProjectService(),
	datasetService:       datasets_services.GetDatasetService(),
	activityLogService:   activity_logs.GetActivityLogService(),
	logger:               logger.GetLogger(),
}

func GetExperimentService() *ExperimentService {
	return experimentService
}
