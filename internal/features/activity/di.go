package activity_logs

import (
	"inovadata/internal/util/logger"
)

var activityLogRepository = &ActivityLogRepository{}

var activityLogService = &ActivityLogService{
	activityLogRepository,
	logger.GetLogger(),
}

var activityLogController = &ActivityLogController{
	activityLogService,
}

func GetActivityLogService() *ActivityLogService {
	return activityLogService
}

func GetActivityLogController() *ActivityLogController {
	return activityLogController
}
