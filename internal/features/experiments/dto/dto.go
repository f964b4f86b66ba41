package experiments_dto

import (
	experiments_enums "inovadata/internal/features/experiments/enums"
	experiments_models "inovadata/internal/features/experiments/models"

	"github.com/google/uuid"
)

type CreateExperimentRequestDTO struct {
	DatasetID       uuid.UUID                  `json:"datasetId" binding:"required"`
	Name            string                     `json:"name" binding:"required,min=1,max=255"`
	Description     *string                    `json:"description,omitempty"`
	ModelType       string                     `json:"modelType" binding:"required"`
	Hyperparameters experiments_models.Document `json:"hyperparameters,omitempty"`
	TrainingConfig  experiments_models.Document `json:"trainingConfig,omitempty"`
}

type UpdateStatusRequestDTO struct {
	Status   experiments_enums.ExperimentStatus `json:"status" binding:"required"`
	Progress *float64                           `json:"progress,omitempty"`
}

type SaveResultsRequestDTO struct {
	Metrics           experiments_models.Document `json:"metrics" binding:"required"`
	ConfusionMatrix   experiments_models.Document `json:"confusionMatrix,omitempty"`
	FeatureImportance experiments_models.Document `json:"featureImportance,omitempty"`
	ArtifactPath      *string                     `json:"artifactPath,omitempty"`
}

type ExperimentResponseDTO struct {
	Experiment *experiments_models.Experiment       `json:"experiment"`
	Result     *experiments_models.ExperimentResult `json:"result,omitempty"`
}

type ListExperimentsResponseDTO struct {
	Experiments []*experiments_models.Experiment `json:"experiments"`
}

type CompareExperimentsRequestDTO struct {
	ExperimentIDs []uuid.UUID `json:"experimentIds" binding:"required,min=2"`
}

type CompareExperimentsResponseDTO struct {
	Experiments []*ExperimentResponseDTO `json:"experiments"`
}
