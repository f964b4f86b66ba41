package experiments_models

import (
	"time"

	"github.com/google/uuid"
)

// ExperimentResult holds the outcome of a successful run. At most one row
// exists per experiment.
type ExperimentResult struct {
	ID           uuid.UUID `json:"id"           gorm:"column:id"`
	ExperimentID uuid.UUID `json:"experimentId" gorm:"column:experiment_id;uniqueIndex:uq_experiment_results_experiment"`

	Metrics           Document `json:"metrics"           gorm:"column:metrics;type:jsonb"`
	ConfusionMatrix   Document `json:"confusionMatrix"   gorm:"column:confusion_matrix;type:jsonb"`
	FeatureImportance Document `json:"featureImportance" gorm:"column:feature_importance;type:jsonb"`
	ArtifactPath      *string  `json:"artifactPath"      gorm:"column:artifact_path"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (ExperimentResult) TableName() string {
	return "experiment_results"
}
