package datasets_repositories

import (
	"errors"
	"fmt"
	"time"

	datasets_enums "inovadata/internal/features/datasets/enums"
	datasets_models "inovadata/internal/features/datasets/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DatasetRepository struct{}

func (r *DatasetRepository) CreateDatasetTx(tx *gorm.DB, dataset *datasets_models.Dataset) error {
	if dataset.ID == uuid.Nil {
		dataset.ID = uuid.New()
	}

	now := time.Now().UTC()
	dataset.CreatedAt = now
	dataset.UpdatedAt = now

	if dataset.ProcessingStatus == "" {
		dataset.ProcessingStatus = datasets_enums.ProcessingStatusPending
	}

	return tx.Create(dataset).Error
}

func (r *DatasetRepository) GetDatasetByID(datasetID uuid.UUID) (*datasets_models.Dataset, error) {
	var dataset datasets_models.Dataset

	err := storage.GetDb().
		Where("id = ?", datasetID).
		First(&dataset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &dataset, nil
}

func (r *DatasetRepository) GetProjectDatasets(projectID uuid.UUID) ([]*datasets_models.Dataset, error) {
	var datasets []*datasets_models.Dataset

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&datasets).Error
	if err != nil {
		return nil, err
	}

	return datasets, nil
}

func (r *DatasetRepository) GetDatasetIDsByStatus(
	status datasets_enums.ProcessingStatus,
	limit int,
) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	err := storage.GetDb().
		Model(&datasets_models.Dataset{}).
		Where("processing_status = ?", status).
		Order("updated_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ClaimForProcessing flips pending to processing with a compare-and-swap so
// only one worker can win a given attempt. Returns false when the dataset is
// not in pending state anymore.
func (r *DatasetRepository) ClaimForProcessing(datasetID uuid.UUID) (bool, error) {
	result := storage.GetDb().
		Model(&datasets_models.Dataset{}).
		Where("id = ? AND processing_status = ?", datasetID, datasets_enums.ProcessingStatusPending).
		Updates(map[string]any{
			"processing_status": datasets_enums.ProcessingStatusProcessing,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CompleteProcessing writes the analysis result and the completed status in
// a single update, so readers never observe a completed dataset with stale
// counts or a leftover error.
func (r *DatasetRepository) CompleteProcessing(
	datasetID uuid.UUID,
	rowsCount int64,
	columnsCount int64,
	columnsInfo datasets_models.ColumnsInfo,
	memoryUsage float64,
) error {
	now := time.Now().UTC()

	return storage.GetDb().
		Model(&datasets_models.Dataset{}).
		Where("id = ?", datasetID).
		Updates(map[string]any{
			"processing_status": datasets_enums.ProcessingStatusCompleted,
			"processing_error":  nil,
			"processed_at":      now,
			"rows_count":        rowsCount,
			"columns_count":     columnsCount,
			"columns_info":      columnsInfo,
			"memory_usage":      memoryUsage,
			"updated_at":        now,
		}).Error
}

// FailProcessing records the failure message without touching any previously
// persisted analysis fields.
func (r *DatasetRepository) FailProcessing(datasetID uuid.UUID, message string) error {
	return storage.GetDb().
		Model(&datasets_models.Dataset{}).
		Where("id = ?", datasetID).
		Updates(map[string]any{
			"processing_status": datasets_enums.ProcessingStatusFailed,
			"processing_error":  message,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// ResetToPending clears the previous error and re-arms the state machine.
// Used by retry and by re-processing after a preprocessing transform.
func (r *DatasetRepository) ResetToPending(datasetID uuid.UUID) error {
	return storage.GetDb().
		Model(&datasets_models.Dataset{}).
		Where("id = ?", datasetID).
		Updates(map[string]any{
			"processing_status": datasets_enums.ProcessingStatusPending,
			"processing_error":  nil,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// ApplyTransformResult points the dataset at its new artifact and appends the
// step to the preprocessing history in one transaction. The row is locked for
// the read-append-write cycle so concurrent transforms serialize and no step
// is ever overwritten.
func (r *DatasetRepository) ApplyTransformResult(
	datasetID uuid.UUID,
	newFilePath string,
	finalRows int64,
	step datasets_models.PreprocessingStep,
) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		var dataset datasets_models.Dataset

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", datasetID).
			First(&dataset).Error
		if err != nil {
			return fmt.Errorf("failed to load dataset for transform: %w", err)
		}

		history := append(dataset.PreprocessingHistory, step)

		return tx.
			Model(&datasets_models.Dataset{}).
			Where("id = ?", datasetID).
			Updates(map[string]any{
				"file_path":             newFilePath,
				"rows_count":            finalRows,
				"processing_status":     datasets_enums.ProcessingStatusPending,
				"processing_error":      nil,
				"preprocessing_history": history,
				"updated_at":            time.Now().UTC(),
			}).Error
	})
}

func (r *DatasetRepository) DeleteDatasetTx(tx *gorm.DB, datasetID uuid.UUID) error {
	return tx.Where("id = ?", datasetID).Delete(&datasets_models.Dataset{}).Error
}

func (r *DatasetRepository) DeleteProjectDatasetsTx(tx *gorm.DB, projectID uuid.UUID) error {
	return tx.Where("project_id = ?", projectID).Delete(&datasets_models.Dataset{}).Error
}
