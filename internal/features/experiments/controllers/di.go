package experiments_controllers

import (
	experiments_services "inovadata/internal/features/experiments/services"
)

var experimentController = &ExperimentController{
	experimentService: experiments_services.GetExperimentService(),
}

func GetExperimentController() *ExperimentController {
	return experimentController
}
