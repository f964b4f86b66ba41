package datasets_services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	activity_logs "inovadata/internal/features/activity"
	activity_models "inovadata/internal/features/activity/models"
	datasets_dto "inovadata/internal/features/datasets/dto"
	datasets_engine "inovadata/internal/features/datasets/engine"
	datasets_models "inovadata/internal/features/datasets/models"
	datasets_repositories "inovadata/internal/features/datasets/repositories"
	users_models "inovadata/internal/features/users/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// versionSuffixPattern matches a version tag directly before the file
// extension, e.g. iris_v1714650000000.csv.
var versionSuffixPattern = regexp.MustCompile(`_v\d+$`)

// VersionerService computes versioned artifact paths, applies preprocessing
// transforms through the analysis engine and snapshots immutable dataset
// versions.
type VersionerService struct {
	datasetRepository  *datasets_repositories.DatasetRepository
	versionRepository  *datasets_repositories.VersionRepository
	datasetService     *DatasetService
	processingService  *ProcessingService
	activityLogService *activity_logs.ActivityLogService
	engineClient       *datasets_engine.Client
	logger             *slog.Logger

	stampMu   sync.Mutex
	lastStamp int64
}

// VersionedPath derives the artifact path for the next derived version.
// Any existing version suffix is stripped first, so repeated application
// never stacks suffixes; the extension is preserved.
func (s *VersionerService) VersionedPath(path string) string {
	extension := filepath.Ext(path)
	stem := strings.TrimSuffix(path, extension)
	stem = versionSuffixPattern.ReplaceAllString(stem, "")

	return stem + "_v" + strconv.FormatInt(s.nextStamp(), 10) + extension
}

// nextStamp returns a strictly increasing millisecond timestamp, bumping by
// one when two calls land in the same millisecond.
func (s *VersionerService) nextStamp() int64 {
	s.stampMu.Lock()
	defer s.stampMu.Unlock()

	stamp := time.Now().UnixMilli()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}

	s.lastStamp = stamp

	return stamp
}

// ApplyTransform runs one preprocessing operation on the dataset's current
// artifact. On success the dataset points at the new artifact, the step is
// appended to the immutable history, and the dataset re-enters the
// processing pipeline to regenerate its column metadata.
func (s *VersionerService) ApplyTransform(
	ctx context.Context,
	datasetID uuid.UUID,
	user *users_models.User,
	request *datasets_dto.PreprocessRequestDTO,
) (*datasets_models.Dataset, error) {
	dataset, err := s.datasetService.requireEditableDataset(datasetID, user)
	if err != nil {
		return nil, err
	}

	if !dataset.HasArtifact() {
		return nil, ErrNoArtifact
	}

	outputPath := s.VersionedPath(dataset.FilePath)

	response, err := s.engineClient.Preprocess(ctx, &datasets_engine.PreprocessRequest{
		FilePath:            dataset.FilePath,
		FileFormat:          string(dataset.FileFormat),
		ColumnName:          request.ColumnName,
		Action:              request.Action,
		OutputPath:          outputPath,
		CustomMissingValues: request.CustomMissingValues,
		Method:              request.Method,
		ReplacementStrategy: request.ReplacementStrategy,
		MinValue:            request.MinValue,
		MaxValue:            request.MaxValue,
	})
	if err != nil {
		return nil, err
	}

	step := datasets_models.PreprocessingStep{
		Action:     request.Action,
		ColumnName: request.ColumnName,
		Params:     transformParams(request),
		AppliedBy:  user.ID,
		AppliedAt:  time.Now().UTC(),
	}

	err = s.datasetRepository.ApplyTransformResult(datasetID, outputPath, response.FinalRows, step)
	if err != nil {
		return nil, fmt.Errorf("failed to persist transform result: %w", err)
	}

	s.activityLogService.WriteActivityLog(
		&user.ID,
		&dataset.ProjectID,
		"dataset.preprocessed",
		"dataset",
		&dataset.ID,
		activity_models.Details{
			"action": request.Action,
			"column": request.ColumnName,
		},
	)

	s.processingService.Submit(datasetID)

	return s.datasetRepository.GetDatasetByID(datasetID)
}

// CreateVersion snapshots the dataset's current artifact and preprocessing
// history as the next immutable version.
func (s *VersionerService) CreateVersion(
	datasetID uuid.UUID,
	user *users_models.User,
	request *datasets_dto.CreateVersionRequestDTO,
) (*datasets_models.DatasetVersion, error) {
	dataset, err := s.datasetService.requireEditableDataset(datasetID, user)
	if err != nil {
		return nil, err
	}

	version := &datasets_models.DatasetVersion{
		DatasetID:          dataset.ID,
		Description:        request.Description,
		FilePath:           dataset.FilePath,
		PreprocessingSteps: dataset.PreprocessingHistory,
		RowsCount:          dataset.RowsCount,
		CreatedBy:          user.ID,
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.versionRepository.CreateVersionTx(tx, version); err != nil {
			return fmt.Errorf("failed to create dataset version: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&dataset.ProjectID,
			"dataset.version_created",
			"dataset_version",
			&version.ID,
			activity_models.Details{"versionNumber": version.VersionNumber},
		)
	})
	if err != nil {
		return nil, err
	}

	return version, nil
}

// GetVersions lists the dataset's versions in ascending order. Read access
// follows the same visibility rules as the dataset itself.
func (s *VersionerService) GetVersions(
	datasetID uuid.UUID,
	user *users_models.User,
) ([]*datasets_models.DatasetVersion, error) {
	if _, err := s.datasetService.GetDataset(datasetID, user); err != nil {
		return nil, err
	}

	return s.versionRepository.GetVersions(datasetID)
}

// GetVersion resolves a single version by its number within the dataset.
func (s *VersionerService) GetVersion(
	datasetID uuid.UUID,
	versionNumber int,
	user *users_models.User,
) (*datasets_models.DatasetVersion, error) {
	if _, err := s.datasetService.GetDataset(datasetID, user); err != nil {
		return nil, err
	}

	version, err := s.versionRepository.GetVersion(datasetID, versionNumber)
	if err != nil {
		return nil, err
	}

	if version == nil {
		return nil, ErrVersionNotFound
	}

	return version, nil
}

func transformParams(request *datasets_dto.PreprocessRequestDTO) map[string]any {
	params := map[string]any{}
	for key, value := range request.Params {
		params[key] = value
	}

	if request.Method != "" {
		params["method"] = request.Method
	}
	if request.ReplacementStrategy != "" {
		params["replacementStrategy"] = request.ReplacementStrategy
	}
	if request.MinValue != nil {
		params["minValue"] = *request.MinValue
	}
	if request.MaxValue != nil {
		params["maxValue"] = *request.MaxValue
	}
	if len(request.CustomMissingValues) > 0 {
		params["customMissingValues"] = request.CustomMissingValues
	}

	if len(params) == 0 {
		return nil
	}

	return params
}
