package experiments_services

import (
	"errors"
	"fmt"
	"log/slog"

	activity_logs "inovadata/internal/features/activity"
	activity_models "inovadata/internal/features/activity/models"
	datasets_services "inovadata/internal/features/datasets/services"
	experiments_dto "inovadata/internal/features/experiments/dto"
	experiments_enums "inovadata/internal/features/experiments/enums"
	experiments_models "inovadata/internal/features/experiments/models"
	experiments_repositories "inovadata/internal/features/experiments/repositories"
	projects_services "inovadata/internal/features/projects/services"
	users_enums "inovadata/internal/features/users/enums"
	users_models "inovadata/internal/features/users/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrExperimentNotFound covers both absence and denial.
var ErrExperimentNotFound = errors.New("experiment not found")

var (
	ErrResultExists      = errors.New("experiment already has a result")
	ErrInvalidTransition = errors.New("invalid experiment status transition")
	ErrDatasetMismatch   = errors.New("dataset does not belong to this project")
)

type ExperimentService struct {
	experimentRepository *experiments_repositories.ExperimentRepository
	resultRepository     *experiments_repositories.ResultRepository
	projectService       *projects_services.ProjectService
	datasetService       *datasets_services.DatasetService
	activityLogService   *activity_logs.ActivityLogService
	logger               *slog.Logger
}

func (s *ExperimentService) CreateExperiment(
	projectID uuid.UUID,
	user *users_models.User,
	request *experiments_dto.CreateExperimentRequestDTO,
) (*experiments_models.Experiment, error) {
	err := s.projectService.RequireRole(
		projectID,
		user.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
	)
	if err != nil {
		return nil, mapProjectError(err)
	}

	dataset, err := s.datasetService.GetDataset(request.DatasetID, user)
	if err != nil {
		return nil, ErrDatasetMismatch
	}

	if dataset.ProjectID != projectID {
		return nil, ErrDatasetMismatch
	}

	experiment := &experiments_models.Experiment{
		ID:              uuid.New(),
		ProjectID:       projectID,
		DatasetID:       request.DatasetID,
		Name:            request.Name,
		Description:     request.Description,
		Status:          experiments_enums.ExperimentStatusPending,
		ModelType:       request.ModelType,
		Hyperparameters: request.Hyperparameters,
		TrainingConfig:  request.TrainingConfig,
		CreatedBy:       user.ID,
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.experimentRepository.CreateExperimentTx(tx, experiment); err != nil {
			return fmt.Errorf("failed to create experiment: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&projectID,
			"experiment.created",
			"experiment",
			&experiment.ID,
			activity_models.Details{"name": experiment.Name, "modelType": experiment.ModelType},
		)
	})
	if err != nil {
		return nil, err
	}

	return experiment, nil
}

// GetExperiment returns the experiment with its result, if one exists.
func (s *ExperimentService) GetExperiment(
	experimentID uuid.UUID,
	user *users_models.User,
) (*experiments_models.Experiment, *experiments_models.ExperimentResult, error) {
	experiment, err := s.requireVisibleExperiment(experimentID, user)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.resultRepository.GetResultByExperimentID(experimentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load experiment result: %w", err)
	}

	return experiment, result, nil
}

func (s *ExperimentService) GetProjectExperiments(
	projectID uuid.UUID,
	user *users_models.User,
) ([]*experiments_models.Experiment, error) {
	_, _, err := s.projectService.GetProject(projectID, user)
	if err != nil {
		return nil, mapProjectError(err)
	}

	return s.experimentRepository.GetProjectExperiments(projectID)
}

// UpdateStatus moves the experiment through its lifecycle. The completion
// timestamp is written exactly once, on the first transition into completed
// or failed; re-running a finished experiment never rewrites it.
func (s *ExperimentService) UpdateStatus(
	experimentID uuid.UUID,
	user *users_models.User,
	request *experiments_dto.UpdateStatusRequestDTO,
) (*experiments_models.Experiment, error) {
	experiment, err := s.requireEditableExperiment(experimentID, user)
	if err != nil {
		return nil, err
	}

	if !request.Status.IsValid() {
		return nil, ErrInvalidTransition
	}

	updates := map[string]any{"status": request.Status}

	if request.Progress != nil {
		updates["progress"] = clampProgress(*request.Progress)
	} else if request.Status == experiments_enums.ExperimentStatusCompleted {
		updates["progress"] = 100.0
	}

	setCompletedAt := request.Status.IsTerminal() && experiment.CompletedAt == nil

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		err := s.experimentRepository.UpdateStatusTx(tx, experimentID, updates, setCompletedAt)
		if err != nil {
			return fmt.Errorf("failed to update experiment status: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&experiment.ProjectID,
			"experiment.status_changed",
			"experiment",
			&experiment.ID,
			activity_models.Details{
				"from": string(experiment.Status),
				"to":   string(request.Status),
			},
		)
	})
	if err != nil {
		return nil, err
	}

	return s.experimentRepository.GetExperimentByID(experimentID)
}

// SaveResults attaches the single result of a successful run. A second call
// for the same experiment returns a conflict.
func (s *ExperimentService) SaveResults(
	experimentID uuid.UUID,
	user *users_models.User,
	request *experiments_dto.SaveResultsRequestDTO,
) (*experiments_models.ExperimentResult, error) {
	experiment, err := s.requireEditableExperiment(experimentID, user)
	if err != nil {
		return nil, err
	}

	result := &experiments_models.ExperimentResult{
		ExperimentID:      experimentID,
		Metrics:           request.Metrics,
		ConfusionMatrix:   request.ConfusionMatrix,
		FeatureImportance: request.FeatureImportance,
		ArtifactPath:      request.ArtifactPath,
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.resultRepository.CreateResultTx(tx, result); err != nil {
			return err
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&experiment.ProjectID,
			"experiment.results_saved",
			"experiment",
			&experiment.ID,
			nil,
		)
	})
	if err != nil {
		if errors.Is(err, experiments_repositories.ErrDuplicateResult) {
			return nil, ErrResultExists
		}

		return nil, err
	}

	return result, nil
}

// CompareExperiments returns the requested experiments side by side with
// their results. IDs that do not exist or belong to another project are
// silently dropped from the comparison.
func (s *ExperimentService) CompareExperiments(
	projectID uuid.UUID,
	user *users_models.User,
	experimentIDs []uuid.UUID,
) ([]*experiments_dto.ExperimentResponseDTO, error) {
	_, _, err := s.projectService.GetProject(projectID, user)
	if err != nil {
		return nil, mapProjectError(err)
	}

	entries := make([]*experiments_dto.ExperimentResponseDTO, 0, len(experimentIDs))

	for _, experimentID := range experimentIDs {
		experiment, err := s.experimentRepository.GetExperimentByID(experimentID)
		if err != nil {
			return nil, err
		}

		if experiment == nil || experiment.ProjectID != projectID {
			continue
		}

		result, err := s.resultRepository.GetResultByExperimentID(experimentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load experiment result: %w", err)
		}

		entries = append(entries, &experiments_dto.ExperimentResponseDTO{
			Experiment: experiment,
			Result:     result,
		})
	}

	return entries, nil
}

func (s *ExperimentService) DeleteExperiment(experimentID uuid.UUID, user *users_models.User) error {
	experiment, err := s.requireEditableExperiment(experimentID, user)
	if err != nil {
		return err
	}

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.resultRepository.DeleteExperimentResultTx(tx, experimentID); err != nil {
			return fmt.Errorf("failed to delete experiment result: %w", err)
		}

		if err := s.experimentRepository.DeleteExperimentTx(tx, experimentID); err != nil {
			return fmt.Errorf("failed to delete experiment: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&experiment.ProjectID,
			"experiment.deleted",
			"experiment",
			&experiment.ID,
			activity_models.Details{"name": experiment.Name},
		)
	})
}

// OnBeforeProjectDeletion removes all experiments and results that belong
// to the project.
func (s *ExperimentService) OnBeforeProjectDeletion(projectID uuid.UUID) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.resultRepository.DeleteProjectResultsTx(tx, projectID); err != nil {
			return fmt.Errorf("failed to delete project experiment results: %w", err)
		}

		if err := s.experimentRepository.DeleteProjectExperimentsTx(tx, projectID); err != nil {
			return fmt.Errorf("failed to delete project experiments: %w", err)
		}

		return nil
	})
}

func (s *ExperimentService) requireVisibleExperiment(
	experimentID uuid.UUID,
	user *users_models.User,
) (*experiments_models.Experiment, error) {
	experiment, err := s.experimentRepository.GetExperimentByID(experimentID)
	if err != nil {
		return nil, err
	}

	if experiment == nil {
		return nil, ErrExperimentNotFound
	}

	_, _, err = s.projectService.GetProject(experiment.ProjectID, user)
	if err != nil {
		return nil, mapProjectError(err)
	}

	return experiment, nil
}

func (s *ExperimentService) requireEditableExperiment(
	experimentID uuid.UUID,
	user *users_models.User,
) (*experiments_models.Experiment, error) {
	experiment, err := s.experimentRepository.GetExperimentByID(experimentID)
	if err != nil {
		return nil, err
	}

	if experiment == nil {
		return nil, ErrExperimentNotFound
	}

	err = s.projectService.RequireRole(
		experiment.ProjectID,
		user.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
	)
	if err != nil {
		return nil, mapProjectError(err)
	}

	return experiment, nil
}

func clampProgress(progress float64) float64 {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}

	return progress
}

func mapProjectError(err error) error {
	if errors.Is(err, projects_services.ErrProjectNotFound) {
		return ErrExperimentNotFound
	}

	return err
}
