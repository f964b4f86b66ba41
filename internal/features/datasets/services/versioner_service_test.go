package datasets_services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	datasets_dto "inovadata/internal/features/datasets/dto"
	datasets_engine "inovadata/internal/features/datasets/engine"
	datasets_enums "inovadata/internal/features/datasets/enums"
	datasets_testing "inovadata/internal/features/datasets/testing"
	projects_testing "inovadata/internal/features/projects/testing"
	users_testing "inovadata/internal/features/users/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_VersionedPath_WhenPlainPath_AppendsSingleSuffix(t *testing.T) {
	service := GetVersionerService()

	versioned := service.VersionedPath("/data/iris.csv")

	assert.Regexp(t, `^/data/iris_v\d+\.csv$`, versioned)
}

func Test_VersionedPath_WhenAlreadyVersioned_ReplacesSuffix(t *testing.T) {
	service := GetVersionerService()

	first := service.VersionedPath("/data/iris.csv")
	second := service.VersionedPath(first)

	assert.Regexp(t, `^/data/iris_v\d+\.csv$`, second)
	assert.NotEqual(t, first, second)
}

func Test_VersionedPath_WhenAppliedRepeatedly_NeverAccumulatesSuffixes(t *testing.T) {
	service := GetVersionerService()

	path := "/data/measurements.arff"
	for range 5 {
		path = service.VersionedPath(path)
	}

	assert.Regexp(t, `^/data/measurements_v\d+\.arff$`, path)
}

func Test_VersionedPath_WhenCalledBackToBack_StampsStrictlyIncrease(t *testing.T) {
	service := GetVersionerService()

	seen := map[string]bool{}
	for range 50 {
		path := service.VersionedPath("/data/iris.csv")
		assert.False(t, seen[path], "duplicate versioned path %s", path)
		seen[path] = true
	}
}

func Test_CreateVersion_WhenSequential_AssignsNumbersWithoutGaps(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	service := GetVersionerService()

	for expected := 1; expected <= 3; expected++ {
		version, err := service.CreateVersion(dataset.ID, owner.User, &datasets_dto.CreateVersionRequestDTO{})
		require.NoError(t, err)
		assert.Equal(t, expected, version.VersionNumber)
	}

	versions, err := service.GetVersions(dataset.ID, owner.User)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	for index, version := range versions {
		assert.Equal(t, index+1, version.VersionNumber)
		assert.Equal(t, dataset.FilePath, version.FilePath)
	}
}

func Test_CreateVersion_WhenConcurrent_NumbersStayGaplessAndUnique(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	service := GetVersionerService()

	const creators = 5
	errs := make([]error, creators)

	var wg sync.WaitGroup
	for i := range creators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = service.CreateVersion(dataset.ID, owner.User, &datasets_dto.CreateVersionRequestDTO{})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	versions, err := service.GetVersions(dataset.ID, owner.User)
	require.NoError(t, err)
	require.Len(t, versions, creators)

	for index, version := range versions {
		assert.Equal(t, index+1, version.VersionNumber)
	}
}

func Test_ApplyTransform_WhenEngineSucceeds_AppendsHistoryAndReprocesses(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/preprocess":
			json.NewEncoder(w).Encode(map[string]any{"message": "ok", "final_rows": 140})
		case "/process":
			json.NewEncoder(w).Encode(successResponse(140))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	SetEngineClientForTest(datasets_engine.NewClient(server.URL))

	service := GetVersionerService()

	updated, err := service.ApplyTransform(context.Background(), dataset.ID, owner.User, &datasets_dto.PreprocessRequestDTO{
		ColumnName: "sepal_length",
		Action:     "fill_missing",
		Method:     "mean",
	})
	require.NoError(t, err)

	assert.NotEqual(t, dataset.FilePath, updated.FilePath)
	assert.Regexp(t, `_v\d+\.csv$`, updated.FilePath)
	assert.Equal(t, datasets_enums.ProcessingStatusPending, updated.ProcessingStatus)
	require.Len(t, updated.PreprocessingHistory, 1)
	assert.Equal(t, "fill_missing", updated.PreprocessingHistory[0].Action)
	assert.Equal(t, owner.User.ID, updated.PreprocessingHistory[0].AppliedBy)

	GetProcessingService().ExecuteBackgroundTasksForTest()

	reprocessed, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, datasets_enums.ProcessingStatusCompleted, reprocessed.ProcessingStatus)
	require.NotNil(t, reprocessed.RowsCount)
	assert.Equal(t, int64(140), *reprocessed.RowsCount)
}

func Test_ApplyTransform_WhenAppliedTwice_HistoryGrowsAppendOnly(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/preprocess":
			json.NewEncoder(w).Encode(map[string]any{"message": "ok", "final_rows": 120})
		default:
			json.NewEncoder(w).Encode(successResponse(120))
		}
	}))
	t.Cleanup(server.Close)

	SetEngineClientForTest(datasets_engine.NewClient(server.URL))

	service := GetVersionerService()

	_, err = service.ApplyTransform(context.Background(), dataset.ID, owner.User, &datasets_dto.PreprocessRequestDTO{
		ColumnName: "a",
		Action:     "fill_missing",
	})
	require.NoError(t, err)

	updated, err := service.ApplyTransform(context.Background(), dataset.ID, owner.User, &datasets_dto.PreprocessRequestDTO{
		ColumnName: "b",
		Action:     "remove_outliers",
	})
	require.NoError(t, err)

	require.Len(t, updated.PreprocessingHistory, 2)
	assert.Equal(t, "fill_missing", updated.PreprocessingHistory[0].Action)
	assert.Equal(t, "remove_outliers", updated.PreprocessingHistory[1].Action)
	assert.Regexp(t, `^/tmp/test-datasets/[0-9a-f-]+_v\d+\.csv$`, updated.FilePath)
}

func Test_ApplyTransform_WhenConcurrent_NoHistoryStepLost(t *testing.T) {
	owner := users_testing.CreateTestUser()
	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/preprocess":
			json.NewEncoder(w).Encode(map[string]any{"message": "ok", "final_rows": 130})
		default:
			json.NewEncoder(w).Encode(successResponse(130))
		}
	}))
	t.Cleanup(server.Close)

	SetEngineClientForTest(datasets_engine.NewClient(server.URL))

	service := GetVersionerService()
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, column := range []string{"a", "b"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = service.ApplyTransform(context.Background(), dataset.ID, owner.User,
				&datasets_dto.PreprocessRequestDTO{
					ColumnName: column,
					Action:     "fill_missing",
				})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	transformed, err := datasetRepository.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	require.Len(t, transformed.PreprocessingHistory, 2)

	columns := []string{
		transformed.PreprocessingHistory[0].ColumnName,
		transformed.PreprocessingHistory[1].ColumnName,
	}
	assert.ElementsMatch(t, []string{"a", "b"}, columns)
}

func Test_CreateVersion_WhenViewer_ReturnsNotFound(t *testing.T) {
	owner := users_testing.CreateTestUser()
	viewer := users_testing.CreateTestUser()

	project, err := projects_testing.CreateTestProject(owner.User.ID)
	require.NoError(t, err)

	_, err = projects_testing.AddTestMember(project.ID, viewer.User.ID, "viewer")
	require.NoError(t, err)

	dataset, err := datasets_testing.CreateTestDataset(
		project.ID, owner.User.ID, datasets_enums.ProcessingStatusCompleted)
	require.NoError(t, err)

	_, err = GetVersionerService().CreateVersion(dataset.ID, viewer.User, &datasets_dto.CreateVersionRequestDTO{})
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}
