package users_controllers

import (
	"net/http"
	"testing"

	projects_controllers "inovadata/internal/features/projects/controllers"
	projects_dto "inovadata/internal/features/projects/dto"
	users_dto "inovadata/internal/features/users/dto"
	users_middleware "inovadata/internal/features/users/middleware"
	users_services "inovadata/internal/features/users/services"
	users_testing "inovadata/internal/features/users/testing"
	test_utils "inovadata/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")

	userController := GetUserController()
	userController.SetSignInLimiter(rate.NewLimiter(rate.Inf, 1))
	userController.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(users_middleware.AuthMiddleware(users_services.GetUserService()))

	userController.RegisterProtectedRoutes(protected)
	projects_controllers.GetProjectController().RegisterRoutes(protected)

	admin := protected.Group("")
	admin.Use(users_middleware.RequireAdmin())
	GetManagementController().RegisterRoutes(admin)

	return router
}

func Test_SignUpAndSignIn_WhenValid_TokenGrantsAccess(t *testing.T) {
	router := buildTestRouter()

	test_utils.MakePostRequest(t, router, "/api/v1/users/signup", "",
		users_dto.SignUpRequestDTO{
			Username: "integration-user",
			Email:    "integration@test.com",
			Password: "correct-horse-battery",
		}, http.StatusOK)

	var signin users_dto.SignInResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/users/signin", "",
		users_dto.SignInRequestDTO{
			Identifier: "integration-user",
			Password:   "correct-horse-battery",
		}, http.StatusOK, &signin)
	require.NotEmpty(t, signin.Token)

	var profile users_dto.UserProfileResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/users/me",
		"Bearer "+signin.Token, http.StatusOK, &profile)
	assert.Equal(t, "integration-user", profile.Username)
}

func Test_GetCurrentUser_WhenNoToken_Unauthorized(t *testing.T) {
	router := buildTestRouter()

	test_utils.MakeGetRequest(t, router, "/api/v1/users/me", "", http.StatusUnauthorized)
}

func Test_SignOut_WhenCalled_TokenStopsWorking(t *testing.T) {
	router := buildTestRouter()
	access := users_testing.CreateTestUser()

	test_utils.MakePostRequest(t, router, "/api/v1/users/signout",
		"Bearer "+access.Token, nil, http.StatusOK)

	test_utils.MakeGetRequest(t, router, "/api/v1/users/me",
		"Bearer "+access.Token, http.StatusUnauthorized)
}

func Test_ListUsers_WhenNotAdmin_Forbidden(t *testing.T) {
	router := buildTestRouter()

	regular := users_testing.CreateTestUser()
	admin := users_testing.CreateTestAdmin()

	test_utils.MakeGetRequest(t, router, "/api/v1/users",
		"Bearer "+regular.Token, http.StatusForbidden)

	var listed users_dto.ListUsersResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/users",
		"Bearer "+admin.Token, http.StatusOK, &listed)
	assert.NotEmpty(t, listed.Users)
}

func Test_ProjectEndpoints_WhenStranger_ProjectHiddenAsNotFound(t *testing.T) {
	router := buildTestRouter()

	owner := users_testing.CreateTestUser()
	stranger := users_testing.CreateTestUser()

	var created projects_dto.ProjectResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/projects",
		"Bearer "+owner.Token,
		projects_dto.CreateProjectRequestDTO{Name: "private research"},
		http.StatusCreated, &created)
	require.NotNil(t, created.Project)

	projectURL := "/api/v1/projects/" + created.Project.ID.String()

	test_utils.MakeGetRequest(t, router, projectURL, "Bearer "+owner.Token, http.StatusOK)
	test_utils.MakeGetRequest(t, router, projectURL, "Bearer "+stranger.Token, http.StatusNotFound)

	renamed := "renamed research"
	test_utils.MakePutRequest(t, router, projectURL, "Bearer "+stranger.Token,
		projects_dto.UpdateProjectRequestDTO{Name: &renamed}, http.StatusNotFound)
	test_utils.MakePutRequest(t, router, projectURL, "Bearer "+owner.Token,
		projects_dto.UpdateProjectRequestDTO{Name: &renamed}, http.StatusOK)

	test_utils.MakeDeleteRequest(t, router, projectURL, "Bearer "+stranger.Token, http.StatusNotFound)
	test_utils.MakeDeleteRequest(t, router, projectURL, "Bearer "+owner.Token, http.StatusNoContent)
	test_utils.MakeGetRequest(t, router, projectURL, "Bearer "+owner.Token, http.StatusNotFound)
}
