package experiments_services

import (
	"testing"
	"time"

	datasets_enums "inovadata/internal/features/datasets/enums"
	datasets_testing "inovadata/internal/features/datasets/testing"
	experiments_dto "inovadata/internal/features/experiments/dto"
	experiments_enums "inovadata/internal/features/experiments/enums"
	experiments_models "inovadata/internal/features/experiments/models"
	projects_testing "inovadata/internal/features/projects/testing"
	users_testing "inovadata/internal/features/users/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createExperimentFixture(t *testing.T) (*users_testing.TestUserAccess, *experiments_models.Experiment) {
	t.Helper()

	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	experiment, err := GetExperimentService().CreateExperiment(project.ID, owner.User,
		&experiments_dto.CreateExperimentRequestDTO{
			DatasetID: dataset.ID,
			Name:      "baseline",
			ModelType: "random_forest",
		})
	require.NoError(t, err)

	return owner, experiment
}

func Test_CreateExperiment_WhenDatasetFromOtherProject_Refused(t *testing.T) {
	owner := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	otherProject, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	foreignDataset, err := datasets_testing.CreateTestDataset(
		otherProject.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	_, err = GetExperimentService().CreateExperiment(project.ID, owner.User,
		&experiments_dto.CreateExperimentRequestDTO{
			DatasetID: foreignDataset.ID,
			Name:      "cross-project",
			ModelType: "svm",
		})
	assert.ErrorIs(t, err, ErrDatasetMismatch)
}

func Test_UpdateStatus_WhenFirstTerminalTransition_SetsCompletedAtOnce(t *testing.T) {
	owner, experiment := createExperimentFixture(t)
	service := GetExperimentService()

	running, err := service.UpdateStatus(experiment.ID, owner.User,
		&experiments_dto.UpdateStatusRequestDTO{Status: experiments_enums.ExperimentStatusRunning})
	require.NoError(t, err)
	assert.Nil(t, running.CompletedAt)

	completed, err := service.UpdateStatus(experiment.ID, owner.User,
		&experiments_dto.UpdateStatusRequestDTO{Status: experiments_enums.ExperimentStatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, float64(100), completed.Progress)

	firstCompletion := *completed.CompletedAt

	time.Sleep(5 * time.Millisecond)

	failed, err := service.UpdateStatus(experiment.ID, owner.User,
		&experiments_dto.UpdateStatusRequestDTO{Status: experiments_enums.ExperimentStatusFailed})
	require.NoError(t, err)
	require.NotNil(t, failed.CompletedAt)
	assert.True(t, failed.CompletedAt.Equal(firstCompletion),
		"completion timestamp must never move after the first terminal transition")
}

func Test_UpdateStatus_WhenProgressOutOfRange_Clamped(t *testing.T) {
	owner, experiment := createExperimentFixture(t)
	service := GetExperimentService()

	progress := 250.0
	updated, err := service.UpdateStatus(experiment.ID, owner.User,
		&experiments_dto.UpdateStatusRequestDTO{
			Status:   experiments_enums.ExperimentStatusRunning,
			Progress: &progress,
		})
	require.NoError(t, err)
	assert.Equal(t, float64(100), updated.Progress)
}

func Test_SaveResults_WhenCalledTwice_SecondReturnsConflict(t *testing.T) {
	owner, experiment := createExperimentFixture(t)
	service := GetExperimentService()

	request := &experiments_dto.SaveResultsRequestDTO{
		Metrics: experiments_models.Document{"accuracy": 0.93},
	}

	result, err := service.SaveResults(experiment.ID, owner.User, request)
	require.NoError(t, err)
	assert.Equal(t, experiment.ID, result.ExperimentID)

	_, err = service.SaveResults(experiment.ID, owner.User, request)
	assert.ErrorIs(t, err, ErrResultExists)
}

func Test_GetExperiment_WhenResultExists_ReturnsBoth(t *testing.T) {
	owner, experiment := createExperimentFixture(t)
	service := GetExperimentService()

	_, err := service.SaveResults(experiment.ID, owner.User, &experiments_dto.SaveResultsRequestDTO{
		Metrics: experiments_models.Document{"f1": 0.88},
	})
	require.NoError(t, err)

	fetched, result, err := service.GetExperiment(experiment.ID, owner.User)
	require.NoError(t, err)
	assert.Equal(t, experiment.ID, fetched.ID)
	require.NotNil(t, result)
	assert.Equal(t, 0.88, result.Metrics["f1"])
}

func Test_UpdateStatus_WhenViewer_ReturnsNotFound(t *testing.T) {
	_, experiment := createExperimentFixture(t)
	viewer := users_testing.CreateTestUser()

	_, err := projects_testing.AddTestMember(experiment.ProjectID, viewer.User.ID, "viewer")
	require.NoError(t, err)

	_, err = GetExperimentService().UpdateStatus(experiment.ID, viewer.User,
		&experiments_dto.UpdateStatusRequestDTO{Status: experiments_enums.ExperimentStatusRunning})
	assert.ErrorIs(t, err, ErrExperimentNotFound)
}

func Test_DeleteExperiment_WhenOwner_RemovesResultToo(t *testing.T) {
	owner, experiment := createExperimentFixture(t)
	service := GetExperimentService()

	_, err := service.SaveResults(experiment.ID, owner.User, &experiments_dto.SaveResultsRequestDTO{
		Metrics: experiments_models.Document{"accuracy": 0.9},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteExperiment(experiment.ID, owner.User))

	_, _, err = service.GetExperiment(experiment.ID, owner.User)
	assert.ErrorIs(t, err, ErrExperimentNotFound)

	result, err := resultRepository.GetResultByExperimentID(experiment.ID)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func Test_CompareExperiments_WhenForeignID_DroppedFromComparison(t *testing.T) {
	owner, first := createExperimentFixture(t)
	service := GetExperimentService()

	second, err := service.CreateExperiment(first.ProjectID, owner.User,
		&experiments_dto.CreateExperimentRequestDTO{
			DatasetID: first.DatasetID,
			Name:      "tuned",
			ModelType: "random_forest",
		})
	require.NoError(t, err)

	_, err = service.SaveResults(second.ID, owner.User, &experiments_dto.SaveResultsRequestDTO{
		Metrics: experiments_models.Document{"accuracy": 0.95},
	})
	require.NoError(t, err)

	entries, err := service.CompareExperiments(first.ProjectID, owner.User,
		[]uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, first.ID, entries[0].Experiment.ID)
	assert.Nil(t, entries[0].Result)

	assert.Equal(t, second.ID, entries[1].Experiment.ID)
	require.NotNil(t, entries[1].Result)
	assert.Equal(t, 0.95, entries[1].Result.Metrics["accuracy"])
}

func Test_GetExperiment_WhenUnknownID_ReturnsNotFound(t *testing.T) {
	user := users_testing.CreateTestUser()

	_, _, err := GetExperimentService().GetExperiment(uuid.New(), user.User)
	assert.ErrorIs(t, err, ErrExperimentNotFound)
}
