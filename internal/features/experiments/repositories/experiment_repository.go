package experiments_repositories

import (
	"errors"
	"time"

	experiments_models "inovadata/internal/features/experiments/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExperimentRepository struct{}

func (r *ExperimentRepository) CreateExperimentTx(
	tx *gorm.DB,
	experiment *experiments_models.Experiment,
) error {
	if experiment.ID == uuid.Nil {
		experiment.ID = uuid.New()
	}

	now := time.Now().UTC()
	experiment.CreatedAt = now
	experiment.UpdatedAt = now

	return tx.Create(experiment).Error
}

func (r *ExperimentRepository) GetExperimentByID(
	experimentID uuid.UUID,
) (*experiments_models.Experiment, error) {
	var experiment experiments_models.Experiment

	err := storage.GetDb().
		Where("id = ?", experimentID).
		First(&experiment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &experiment, nil
}

func (r *ExperimentRepository) GetProjectExperiments(
	projectID uuid.UUID,
) ([]*experiments_models.Experiment, error) {
	var experiments []*experiments_models.Experiment

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&experiments).Error
	if err != nil {
		return nil, err
	}

	return experiments, nil
}

// UpdateStatusTx writes status and progress. The completion timestamp is
// only filled on the first transition into a terminal state; the guard on
// completed_at keeps later writes from touching it.
func (r *ExperimentRepository) UpdateStatusTx(
	tx *gorm.DB,
	experimentID uuid.UUID,
	updates map[string]any,
	setCompletedAt bool,
) error {
	updates["updated_at"] = time.Now().UTC()

	err := tx.
		Model(&experiments_models.Experiment{}).
		Where("id = ?", experimentID).
		Updates(updates).Error
	if err != nil {
		return err
	}

	if !setCompletedAt {
		return nil
	}

	return tx.
		Model(&experiments_models.Experiment{}).
		Where("id = ? AND completed_at IS NULL", experimentID).
		Update("completed_at", time.Now().UTC()).Error
}

func (r *ExperimentRepository) DeleteExperimentTx(tx *gorm.DB, experimentID uuid.UUID) error {
	return tx.Where("id = ?", experimentID).Delete(&experiments_models.Experiment{}).Error
}

func (r *ExperimentRepository) DeleteProjectExperimentsTx(tx *gorm.DB, projectID uuid.UUID) error {
	return tx.Where("project_id = ?", projectID).Delete(&experiments_models.Experiment{}).Error
}
