package datasets_controllers

import (
	datasets_services "inovadata/internal/features/datasets/services"
)

var datasetController = &DatasetController{
	datasetService: datasets_services.GetDatasetService(),
}

var versionController = &VersionController{
	versionerService: datasets_services.GetVersionerService(),
}

func GetDatasetController() *DatasetController {
	return datasetController
}

func GetVersionController() *VersionController {
	return versionController
}
