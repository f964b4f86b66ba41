package experiments_models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	experiments_enums "inovadata/internal/features/experiments/enums"

	"github.com/google/uuid"
)

type Document map[string]any

func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}

	return json.Marshal(d)
}

func (d *Document) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}

	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, d)
	case string:
		return json.Unmarshal([]byte(data), d)
	default:
		return errors.New("unsupported type for experiment document")
	}
}

type Experiment struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	ProjectID   uuid.UUID `json:"projectId"   gorm:"column:project_id"`
	DatasetID   uuid.UUID `json:"datasetId"   gorm:"column:dataset_id"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`

	Status   experiments_enums.ExperimentStatus `json:"status"   gorm:"column:status"`
	Progress float64                            `json:"progress" gorm:"column:progress"`

	ModelType       string   `json:"modelType"       gorm:"column:model_type"`
	Hyperparameters Document `json:"hyperparameters" gorm:"column:hyperparameters;type:jsonb"`
	TrainingConfig  Document `json:"trainingConfig"  gorm:"column:training_config;type:jsonb"`

	// CompletedAt is written once, on the first transition into a terminal
	// state, and never changes afterwards.
	CompletedAt *time.Time `json:"completedAt" gorm:"column:completed_at"`

	CreatedBy uuid.UUID `json:"createdBy" gorm:"column:created_by"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Experiment) TableName() string {
	return "experiments"
}
