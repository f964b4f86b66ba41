package datasets_services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	datasets_engine "inovadata/internal/features/datasets/engine"
	datasets_enums "inovadata/internal/features/datasets/enums"
	datasets_testing "inovadata/internal/features/datasets/testing"
	projects_testing "inovadata/internal/features/projects/testing"
	users_testing "inovadata/internal/features/users/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine answers /process with canned responses, one per call.
func stubEngine(t *testing.T, responses ...map[string]any) *httptest.Server {
	t.Helper()

	var calls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		index := int(calls.Add(1)) - 1
		if index >= len(responses) {
			index = len(responses) - 1
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(responses[index])
	}))

	t.Cleanup(server.Close)
	t.Cleanup(func() { SetEngineClientForTest(datasets_engine.NewClient("http://localhost:1")) })

	SetEngineClientForTest(datasets_engine.NewClient(server.URL))

	return server
}

func successResponse(rows int64) map[string]any {
	return map[string]any{
		"success":       true,
		"rows_count":    rows,
		"columns_count": 4,
		"columns": []map[string]any{
			{"name": "sepal_length", "data_type": "float", "missing_count": 0, "unique_count": 35},
		},
		"memory_usage": 12.5,
	}
}

func failureResponse(message string) map[string]any {
	return map[string]any{
		"success": false,
		"errors":  []string{message},
	}
}

func Test_ProcessDataset_WhenEngineSucceeds_CompletesWithResults(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusPending)
	require.NoError(t, err)

	stubEngine(t, successResponse(150))

	service := GetProcessingService()
	service.Submit(dataset.ID)
	service.ExecuteBackgroundTasksForTest()

	processed, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusCompleted, processed.ProcessingStatus)
	require.NotNil(t, processed.RowsCount)
	assert.Equal(t, int64(150), *processed.RowsCount)
	assert.Nil(t, processed.ProcessingError)
	assert.NotNil(t, processed.ProcessedAt)
	assert.NotEmpty(t, processed.ColumnsInfo)
}

func Test_ProcessDataset_WhenEngineReportsFailure_PersistsEngineError(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusPending)
	require.NoError(t, err)

	stubEngine(t, failureResponse("bad header"))

	service := GetProcessingService()
	service.Submit(dataset.ID)
	service.ExecuteBackgroundTasksForTest()

	failed, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusFailed, failed.ProcessingStatus)
	require.NotNil(t, failed.ProcessingError)
	assert.Equal(t, "bad header", *failed.ProcessingError,
		"the engine's own error text is persisted without decoration")
}

func Test_ProcessDataset_WhenFailThenRetryThenComplete_EndsCompletedWithoutError(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusPending)
	require.NoError(t, err)

	stubEngine(t, failureResponse("corrupted file"), successResponse(150))

	processing := GetProcessingService()
	processing.Submit(dataset.ID)
	processing.ExecuteBackgroundTasksForTest()

	failed, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	require.Equal(t, datasets_enums.ProcessingStatusFailed, failed.ProcessingStatus)

	require.NoError(t, GetDatasetService().RetryProcessing(dataset.ID, owner.User))

	pending, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusPending, pending.ProcessingStatus)
	assert.Nil(t, pending.ProcessingError)

	processing.ExecuteBackgroundTasksForTest()

	completed, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusCompleted, completed.ProcessingStatus)
	assert.Nil(t, completed.ProcessingError)
}

func Test_ProcessDataset_WhenNotPending_SkipsWithoutWrites(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	stubEngine(t, failureResponse("must not be called"))

	service := GetProcessingService()
	service.Submit(dataset.ID)
	service.ExecuteBackgroundTasksForTest()

	untouched, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusCompleted, untouched.ProcessingStatus)
	assert.Nil(t, untouched.ProcessingError)
}

func Test_ProcessDataset_WhenNoArtifact_FailsOnlyFromPending(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	pending, err := datasets_testing.CreateTestDatasetWithoutArtifact(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusPending)
	require.NoError(t, err)

	completed, err := datasets_testing.CreateTestDatasetWithoutArtifact(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	stubEngine(t, failureResponse("must not be called"))

	service := GetProcessingService()
	service.Submit(pending.ID)
	service.Submit(completed.ID)
	service.ExecuteBackgroundTasksForTest()

	failed, err := datasetRepository.GetDatasetByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusFailed, failed.ProcessingStatus)
	require.NotNil(t, failed.ProcessingError)
	assert.Equal(t, "dataset has no file artifact to process", *failed.ProcessingError)

	untouched, err := datasetRepository.GetDatasetByID(completed.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusCompleted, untouched.ProcessingStatus)
	assert.Nil(t, untouched.ProcessingError)
}

func Test_RetryProcessing_WhenNoArtifact_RefusedAndStatusUnchanged(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDatasetWithoutArtifact(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusFailed)
	require.NoError(t, err)

	err = GetDatasetService().RetryProcessing(dataset.ID, owner.User)
	assert.ErrorIs(t, err, ErrNoArtifact)

	unchanged, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusFailed, unchanged.ProcessingStatus)
}

func Test_DeleteDataset_WhenViewer_DeniedAndDatasetRemains(t *testing.T) {
	owner := users_testing.CreateTestUser()
	viewer := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, viewer.User.ID, "viewer")
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	err = GetDatasetService().DeleteDataset(dataset.ID, viewer.User)
	assert.ErrorIs(t, err, ErrDatasetNotFound)

	stillThere, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	require.NotNil(t, stillThere)
}
