package datasets_testing

import (
	"time"

	datasets_enums "inovadata/internal/features/datasets/enums"
	datasets_models "inovadata/internal/features/datasets/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
)

// CreateTestDataset inserts a dataset row directly so tests can start the
// state machine from any point.
func CreateTestDataset(
	projectID uuid.UUID,
	uploadedBy uuid.UUID,
	status datasets_enums.ProcessingStatus,
) (*datasets_models.Dataset, error) {
	now := time.Now().UTC()

	dataset := &datasets_models.Dataset{
		ID:               uuid.New(),
		ProjectID:        projectID,
		Name:             "test-dataset",
		FilePath:         "/tmp/test-datasets/" + uuid.New().String() + ".csv",
		FileFormat:       datasets_enums.FileFormatCSV,
		FileSizeBytes:    1024,
		ProcessingStatus: status,
		UploadedBy:       uploadedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := storage.GetDb().Create(dataset).Error; err != nil {
		return nil, err
	}

	return dataset, nil
}

// CreateTestDatasetWithoutArtifact inserts a dataset that has no usable
// file, for exercising retry refusal.
func CreateTestDatasetWithoutArtifact(
	projectID uuid.UUID,
	uploadedBy uuid.UUID,
	status datasets_enums.ProcessingStatus,
) (*datasets_models.Dataset, error) {
	now := time.Now().UTC()

	dataset := &datasets_models.Dataset{
		ID:               uuid.New(),
		ProjectID:        projectID,
		Name:             "test-dataset-no-artifact",
		ProcessingStatus: status,
		UploadedBy:       uploadedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := storage.GetDb().Create(dataset).Error; err != nil {
		return nil, err
	}

	return dataset, nil
}
