package datasets_repositories

import (
	"errors"
	"fmt"
	"time"

	datasets_models "inovadata/internal/features/datasets/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VersionRepository struct{}

// CreateVersionTx assigns the next version number by counting inside the
// caller's transaction, in the same transaction as the insert. The parent
// dataset row is locked first so concurrent creations serialize and the
// numbering stays gapless instead of tripping the unique index.
func (r *VersionRepository) CreateVersionTx(tx *gorm.DB, version *datasets_models.DatasetVersion) error {
	var dataset datasets_models.Dataset

	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", version.DatasetID).
		First(&dataset).Error
	if err != nil {
		return fmt.Errorf("failed to lock dataset for versioning: %w", err)
	}

	var count int64

	err = tx.
		Model(&datasets_models.DatasetVersion{}).
		Where("dataset_id = ?", version.DatasetID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count dataset versions: %w", err)
	}

	if version.ID == uuid.Nil {
		version.ID = uuid.New()
	}

	version.VersionNumber = int(count) + 1
	version.CreatedAt = time.Now().UTC()

	return tx.Create(version).Error
}

func (r *VersionRepository) GetVersions(datasetID uuid.UUID) ([]*datasets_models.DatasetVersion, error) {
	var versions []*datasets_models.DatasetVersion

	err := storage.GetDb().
		Where("dataset_id = ?", datasetID).
		Order("version_number ASC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}

	return versions, nil
}

func (r *VersionRepository) GetVersion(
	datasetID uuid.UUID,
	versionNumber int,
) (*datasets_models.DatasetVersion, error) {
	var version datasets_models.DatasetVersion

	err := storage.GetDb().
		Where("dataset_id = ? AND version_number = ?", datasetID, versionNumber).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &version, nil
}

func (r *VersionRepository) DeleteDatasetVersionsTx(tx *gorm.DB, datasetID uuid.UUID) error {
	return tx.
		Where("dataset_id = ?", datasetID).
		Delete(&datasets_models.DatasetVersion{}).Error
}

func (r *VersionRepository) DeleteProjectVersionsTx(tx *gorm.DB, projectID uuid.UUID) error {
	return tx.Exec(`
		DELETE FROM dataset_versions
		WHERE dataset_id IN (SELECT id FROM datasets WHERE project_id = ?)`, projectID).Error
}
