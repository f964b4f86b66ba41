package datasets_models

import (
	"time"

	"github.com/google/uuid"
)

// DatasetVersion is an immutable snapshot marker. Rows are only ever
// inserted; version numbers grow from 1 without gaps per dataset.
type DatasetVersion struct {
	ID            uuid.UUID `json:"id"            gorm:"column:id"`
	DatasetID     uuid.UUID `json:"datasetId"     gorm:"column:dataset_id;uniqueIndex:uq_dataset_versions_number"`
	VersionNumber int       `json:"versionNumber" gorm:"column:version_number;uniqueIndex:uq_dataset_versions_number"`
	Description   *string   `json:"description"   gorm:"column:description"`

	FilePath           string               `json:"filePath"           gorm:"column:file_path"`
	PreprocessingSteps PreprocessingHistory `json:"preprocessingSteps" gorm:"column:preprocessing_steps;type:jsonb"`
	RowsCount          *int64               `json:"rowsCount"          gorm:"column:rows_count"`

	CreatedBy uuid.UUID `json:"createdBy" gorm:"column:created_by"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (DatasetVersion) TableName() string {
	return "dataset_versions"
}
