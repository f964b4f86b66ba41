package experiments_repositories

import (
	"errors"
	"fmt"
	"time"

	experiments_models "inovadata/internal/features/experiments/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateResult surfaces the one-result-per-experiment constraint.
var ErrDuplicateResult = errors.New("experiment already has a result")

type ResultRepository struct{}

// CreateResultTx inserts the experiment's single result. The existence
// check runs in the caller's transaction together with the insert.
func (r *ResultRepository) CreateResultTx(
	tx *gorm.DB,
	result *experiments_models.ExperimentResult,
) error {
	var count int64

	err := tx.
		Model(&experiments_models.ExperimentResult{}).
		Where("experiment_id = ?", result.ExperimentID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check existing result: %w", err)
	}

	if count > 0 {
		return ErrDuplicateResult
	}

	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}

	result.CreatedAt = time.Now().UTC()

	return tx.Create(result).Error
}

func (r *ResultRepository) GetResultByExperimentID(
	experimentID uuid.UUID,
) (*experiments_models.ExperimentResult, error) {
	var result experiments_models.ExperimentResult

	err := storage.GetDb().
		Where("experiment_id = ?", experimentID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}

func (r *ResultRepository) DeleteExperimentResultTx(tx *gorm.DB, experimentID uuid.UUID) error {
	return tx.
		Where("experiment_id = ?", experimentID).
		Delete(&experiments_models.ExperimentResult{}).Error
}

func (r *ResultRepository) DeleteProjectResultsTx(tx *gorm.DB, projectID uuid.UUID) error {
	return tx.Exec(`
		DELETE FROM experiment_results
		WHERE experiment_id IN (SELECT id FROM experiments WHERE project_id = ?)`, projectID).Error
}
