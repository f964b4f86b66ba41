package datasets_services

import (
	"inovadata/internal/config"
	activity_logs "inovadata/internal/features/activity"
	datasets_engine "inovadata/internal/features/datasets/engine"
	datasets_repositories "inovadata/internal/features/datasets/repositories"
	projects_services "inovadata/internal/features/projects/services"
	cache_utils "inovadata/internal/util/cache"
	"inovadata/internal/util/logger"
)

var datasetRepository = &datasets_repositories.DatasetRepository{}
var versionRepository = &datasets_repositories.VersionRepository{}

var engineClient = datasets_engine.NewClient(config.GetEnv().ProcessingEngineURL)

var processingService = &ProcessingService{
	datasetRepository:  datasetRepository,
	engineClient:       engineClient,
	queue:              newProcessingQueue(),
	activityLogService: activity_logs.GetActivityLogService(),
	logger:             logger.GetLogger(),
	sampleSize:         config.GetEnv().ProcessingSampleSize,
}

var datasetService = &DatasetService{
	datasetRepository:  datasetRepository,
	versionRepository:  versionRepository,
	processingService:  processingService,
	projectService:     projects_services.GetProjectService(),
	activityLogService: activity_logs.GetActivityLogService(),
	engineClient:       engineClient,
	logger:             logger.GetLogger(),
	uploadFolder:       config.GetEnv().UploadFolder,
	maxUploadSize:      config.GetEnv().MaxUploadSizeMB << 20,
	previewPageSize:    50,
}

var versionerService = &VersionerService{
	datasetRepository:  datasetRepository,
	versionRepository:  versionRepository,
	datasetService:     datasetService,
	processingService:  processingService,
	activityLogService: activity_logs.GetActivityLogService(),
	engineClient:       engineClient,
	logger:             logger.GetLogger(),
}

func GetDatasetService() *DatasetService {
	return datasetService
}

func GetProcessingService() *ProcessingService {
	return processingService
}

func GetVersionerService() *VersionerService {
	return versionerService
}

// SetEngineClientForTest points every dataset service at a stub engine.
func SetEngineClientForTest(client *datasets_engine.Client) {
	processingService.engineClient = client
	datasetService.engineClient = client
	versionerService.engineClient = client
}

// newProcessingQueue picks the in-memory queue under test binaries and
// Valkey everywhere else.
func newProcessingQueue() ProcessingQueue {
	if config.GetEnv().IsTesting {
		return newMemoryQueue()
	}

	return cache_utils.NewValkeyQueueService()
}
