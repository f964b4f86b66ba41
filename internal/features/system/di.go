package system

import (
	"inovadata/internal/util/logger"
)

var systemService = &SystemService{
	logger: logger.GetLogger(),
}

var systemController = &SystemController{
	systemService: systemService,
}

func GetSystemController() *SystemController {
	return systemController
}
