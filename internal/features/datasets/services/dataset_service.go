package datasets_services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	activity_logs "inovadata/internal/features/activity"
	activity_models "inovadata/internal/features/activity/models"
	datasets_dto "inovadata/internal/features/datasets/dto"
	datasets_engine "inovadata/internal/features/datasets/engine"
	datasets_enums "inovadata/internal/features/datasets/enums"
	datasets_models "inovadata/internal/features/datasets/models"
	datasets_repositories "inovadata/internal/features/datasets/repositories"
	projects_services "inovadata/internal/features/projects/services"
	users_enums "inovadata/internal/features/users/enums"
	users_models "inovadata/internal/features/users/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DatasetService struct {
	datasetRepository  *datasets_repositories.DatasetRepository
	versionRepository  *datasets_repositories.VersionRepository
	processingService  *ProcessingService
	projectService     *projects_services.ProjectService
	activityLogService *activity_logs.ActivityLogService
	engineClient       *datasets_engine.Client
	logger             *slog.Logger

	uploadFolder    string
	maxUploadSize   int64
	previewPageSize int
}

// UploadDataset stores the file, creates the dataset in pending state and
// submits it for processing. The call returns as soon as the record exists;
// processing happens out of band.
func (s *DatasetService) UploadDataset(
	projectID uuid.UUID,
	user *users_models.User,
	fileHeader *multipart.FileHeader,
	name string,
	description *string,
) (*datasets_models.Dataset, error) {
	err := s.projectService.RequireRole(
		projectID,
		user.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
	)
	if err != nil {
		return nil, mapProjectError(err)
	}

	format, err := detectFileFormat(fileHeader.Filename)
	if err != nil {
		return nil, err
	}

	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}

	if fileHeader.Size > s.maxUploadSize {
		return nil, ErrFileTooLarge
	}

	if name == "" {
		name = fileHeader.Filename
	}

	datasetID := uuid.New()

	filePath, err := s.storeUpload(projectID, datasetID, fileHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	dataset := &datasets_models.Dataset{
		ID:               datasetID,
		ProjectID:        projectID,
		Name:             name,
		Description:      description,
		FilePath:         filePath,
		FileFormat:       format,
		FileSizeBytes:    fileHeader.Size,
		ProcessingStatus: datasets_enums.ProcessingStatusPending,
		UploadedBy:       user.ID,
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.datasetRepository.CreateDatasetTx(tx, dataset); err != nil {
			return fmt.Errorf("failed to create dataset: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&projectID,
			"dataset.uploaded",
			"dataset",
			&dataset.ID,
			activity_models.Details{"name": dataset.Name, "format": string(format)},
		)
	})
	if err != nil {
		if removeErr := os.Remove(filePath); removeErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "path", filePath, "error", removeErr)
		}

		return nil, err
	}

	s.processingService.Submit(dataset.ID)

	return dataset, nil
}

// GetDataset returns the dataset if the caller can see its project, either
// through a membership or because the project is public.
func (s *DatasetService) GetDataset(
	datasetID uuid.UUID,
	user *users_models.User,
) (*datasets_models.Dataset, error) {
	dataset, err := s.datasetRepository.GetDatasetByID(datasetID)
	if err != nil {
		return nil, err
	}

	if dataset == nil {
		return nil, ErrDatasetNotFound
	}

	_, _, err = s.projectService.GetProject(dataset.ProjectID, user)
	if err != nil {
		return nil, mapProjectError(err)
	}

	return dataset, nil
}

func (s *DatasetService) GetProjectDatasets(
	projectID uuid.UUID,
	user *users_models.User,
) ([]*datasets_models.Dataset, error) {
	_, _, err := s.projectService.GetProject(projectID, user)
	if err != nil {
		return nil, mapProjectError(err)
	}

	return s.datasetRepository.GetProjectDatasets(projectID)
}

func (s *DatasetService) UpdateDataset(
	datasetID uuid.UUID,
	user *users_models.User,
	request *datasets_dto.UpdateDatasetRequestDTO,
) (*datasets_models.Dataset, error) {
	dataset, err := s.requireEditableDataset(datasetID, user)
	if err != nil {
		return nil, err
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&datasets_models.Dataset{}).
			Where("id = ?", datasetID).
			Updates(map[string]any{
				"name":        request.Name,
				"description": request.Description,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update dataset: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&dataset.ProjectID,
			"dataset.updated",
			"dataset",
			&dataset.ID,
			activity_models.Details{"name": request.Name},
		)
	})
	if err != nil {
		return nil, err
	}

	return s.datasetRepository.GetDatasetByID(datasetID)
}

// DeleteDataset removes the dataset with its versions and artifact file.
func (s *DatasetService) DeleteDataset(datasetID uuid.UUID, user *users_models.User) error {
	dataset, err := s.requireEditableDataset(datasetID, user)
	if err != nil {
		return err
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.versionRepository.DeleteDatasetVersionsTx(tx, datasetID); err != nil {
			return fmt.Errorf("failed to delete dataset versions: %w", err)
		}

		if err := s.datasetRepository.DeleteDatasetTx(tx, datasetID); err != nil {
			return fmt.Errorf("failed to delete dataset: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&dataset.ProjectID,
			"dataset.deleted",
			"dataset",
			&dataset.ID,
			activity_models.Details{"name": dataset.Name},
		)
	})
	if err != nil {
		return err
	}

	if dataset.FilePath != "" {
		if err := os.Remove(dataset.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove dataset artifact",
				"path", dataset.FilePath, "error", err)
		}
	}

	return nil
}

// RetryProcessing re-arms the state machine from any state, provided the
// dataset still has a usable artifact. The previous error is cleared before
// the new attempt is enqueued.
func (s *DatasetService) RetryProcessing(datasetID uuid.UUID, user *users_models.User) error {
	dataset, err := s.requireEditableDataset(datasetID, user)
	if err != nil {
		return err
	}

	if !dataset.HasArtifact() {
		return ErrNoArtifact
	}

	if err := s.datasetRepository.ResetToPending(datasetID); err != nil {
		return fmt.Errorf("failed to reset dataset for retry: %w", err)
	}

	s.activityLogService.WriteActivityLog(
		&user.ID,
		&dataset.ProjectID,
		"dataset.retry",
		"dataset",
		&dataset.ID,
		nil,
	)

	s.processingService.Submit(datasetID)

	return nil
}

// Preview proxies a page of raw rows from the analysis engine.
func (s *DatasetService) Preview(
	ctx context.Context,
	datasetID uuid.UUID,
	user *users_models.User,
	request *datasets_dto.PreviewRequestDTO,
) (*datasets_dto.PreviewResponseDTO, error) {
	dataset, err := s.GetDataset(datasetID, user)
	if err != nil {
		return nil, err
	}

	if !dataset.HasArtifact() {
		return nil, ErrNoArtifact
	}

	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = s.previewPageSize
	}

	response, err := s.engineClient.Preview(ctx, &datasets_engine.PreviewRequest{
		FilePath:   dataset.FilePath,
		FileFormat: string(dataset.FileFormat),
		Limit:      limit,
		Offset:     max(request.Offset, 0),
	})
	if err != nil {
		return nil, err
	}

	return datasets_dto.PreviewResponseFromEngine(response), nil
}

// AnalyzeAdvanced runs column-level analysis with caller-supplied options.
// Read-only, so any project role may call it.
func (s *DatasetService) AnalyzeAdvanced(
	ctx context.Context,
	datasetID uuid.UUID,
	user *users_models.User,
	request *datasets_dto.AdvancedAnalysisRequestDTO,
) (*datasets_dto.AdvancedAnalysisResponseDTO, error) {
	dataset, err := s.GetDataset(datasetID, user)
	if err != nil {
		return nil, err
	}

	if !dataset.HasArtifact() {
		return nil, ErrNoArtifact
	}

	response, err := s.engineClient.AnalyzeAdvanced(ctx, &datasets_engine.AdvancedAnalysisRequest{
		FilePath:            dataset.FilePath,
		FileFormat:          string(dataset.FileFormat),
		CustomMissingValues: request.CustomMissingValues,
		ColumnConfigs:       request.ColumnConfigs,
		DetectOutliers:      request.DetectOutliers,
	})
	if err != nil {
		return nil, err
	}

	return &datasets_dto.AdvancedAnalysisResponseDTO{Columns: response.Columns}, nil
}

// OnBeforeProjectDeletion removes all dataset rows, versions and artifact
// files that belong to the project.
func (s *DatasetService) OnBeforeProjectDeletion(projectID uuid.UUID) error {
	datasets, err := s.datasetRepository.GetProjectDatasets(projectID)
	if err != nil {
		return fmt.Errorf("failed to list project datasets: %w", err)
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.versionRepository.DeleteProjectVersionsTx(tx, projectID); err != nil {
			return fmt.Errorf("failed to delete project dataset versions: %w", err)
		}

		if err := s.datasetRepository.DeleteProjectDatasetsTx(tx, projectID); err != nil {
			return fmt.Errorf("failed to delete project datasets: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, dataset := range datasets {
		if dataset.FilePath == "" {
			continue
		}

		if err := os.Remove(dataset.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove dataset artifact",
				"path", dataset.FilePath, "error", err)
		}
	}

	return nil
}

// requireEditableDataset loads the dataset and checks the owner/editor
// closure on its project. Denied and missing both come back as not found.
func (s *DatasetService) requireEditableDataset(
	datasetID uuid.UUID,
	user *users_models.User,
) (*datasets_models.Dataset, error) {
	dataset, err := s.datasetRepository.GetDatasetByID(datasetID)
	if err != nil {
		return nil, err
	}

	if dataset == nil {
		return nil, ErrDatasetNotFound
	}

	err = s.projectService.RequireRole(
		dataset.ProjectID,
		user.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
	)
	if err != nil {
		return nil, mapProjectError(err)
	}

	return dataset, nil
}

func (s *DatasetService) storeUpload(
	projectID uuid.UUID,
	datasetID uuid.UUID,
	fileHeader *multipart.FileHeader,
) (string, error) {
	directory := filepath.Join(s.uploadFolder, projectID.String())
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", err
	}

	filename := datasetID.String() + "_" + sanitizeFilename(fileHeader.Filename)
	destination := filepath.Join(directory, filename)

	source, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer source.Close()

	target, err := os.Create(destination)
	if err != nil {
		return "", err
	}
	defer target.Close()

	if _, err := io.Copy(target, source); err != nil {
		os.Remove(destination)
		return "", err
	}

	return destination, nil
}

func detectFileFormat(filename string) (datasets_enums.FileFormat, error) {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	format := datasets_enums.FileFormat(extension)
	if !format.IsValid() {
		return "", ErrUnsupportedFormat
	}

	return format, nil
}

// sanitizeFilename keeps the stored name to a safe character set.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	var builder strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}

	return builder.String()
}

// mapProjectError folds project-level denial into the dataset vocabulary so
// callers see one not-found outcome.
func mapProjectError(err error) error {
	if errors.Is(err, projects_services.ErrProjectNotFound) {
		return ErrDatasetNotFound
	}

	return err
}
