package projects_controllers

import (
	"errors"
	"net/http"

	activity_logs "inovadata/internal/features/activity"
	projects_dto "inovadata/internal/features/projects/dto"
	projects_services "inovadata/internal/features/projects/services"
	users_enums "inovadata/internal/features/users/enums"
	users_middleware "inovadata/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectController struct {
	projectService     *projects_services.ProjectService
	activityLogService *activity_logs.ActivityLogService
}

func (c *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/projects", c.CreateProject)
	router.GET("/projects", c.GetUserProjects)
	router.GET("/projects/public", c.GetPublicProjects)
	router.GET("/projects/:projectId", c.GetProject)
	router.PUT("/projects/:projectId", c.UpdateProject)
	router.DELETE("/projects/:projectId", c.DeleteProject)
	router.GET("/projects/:projectId/activity-logs", c.GetProjectActivityLogs)
}

// CreateProject
// @Summary Create a new project
// @Description Creates the project and makes the caller its owner
// @Tags projects
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body projects_dto.CreateProjectRequestDTO true "Project data"
// @Success 201 {object} projects_dto.ProjectResponseDTO
// @Failure 400
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request projects_dto.CreateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	project, err := c.projectService.CreateProject(user, &request)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projects_dto.ProjectResponseDTO{
		Project:     project,
		CurrentRole: users_enums.ProjectRoleOwner,
	})
}

// GetUserProjects
// @Summary List the caller's projects
// @Tags projects
// @Produce json
// @Security SessionAuth
// @Success 200 {object} projects_dto.ListProjectsResponseDTO
// @Router /projects [get]
func (c *ProjectController) GetUserProjects(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := c.projectService.GetUserProjects(user)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}

	ctx.JSON(http.StatusOK, projects_dto.ListProjectsResponseDTO{Projects: projects})
}

// GetPublicProjects
// @Summary List public projects
// @Tags projects
// @Produce json
// @Security SessionAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} projects_dto.ListProjectsResponseDTO
// @Router /projects/public [get]
func (c *ProjectController) GetPublicProjects(ctx *gin.Context) {
	var query struct {
		Limit  int `form:"limit"`
		Offset int `form:"offset"`
	}

	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	projects, err := c.projectService.GetPublicProjects(query.Limit, query.Offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}

	ctx.JSON(http.StatusOK, projects_dto.ListProjectsResponseDTO{Projects: projects})
}

// GetProject
// @Summary Get a single project
// @Description Returns the project with the caller's effective role
// @Tags projects
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} projects_dto.ProjectResponseDTO
// @Failure 404
// @Router /projects/{projectId} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	project, role, err := c.projectService.GetProject(projectID, user)
	if err != nil {
		respondProjectError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects_dto.ProjectResponseDTO{
		Project:     project,
		CurrentRole: role,
	})
}

// UpdateProject
// @Summary Update a project
// @Description Owners and editors can update name, description, visibility and status
// @Tags projects
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param request body projects_dto.UpdateProjectRequestDTO true "Fields to update"
// @Success 200 {object} projects_dto.ProjectResponseDTO
// @Failure 404
// @Router /projects/{projectId} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var request projects_dto.UpdateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	project, err := c.projectService.UpdateProject(projectID, user, &request)
	if err != nil {
		respondProjectError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects_dto.ProjectResponseDTO{Project: project})
}

// DeleteProject
// @Summary Delete a project
// @Description Owner-only; removes the project with all its datasets and experiments
// @Tags projects
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Success 204
// @Failure 404
// @Router /projects/{projectId} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if err := c.projectService.DeleteProject(projectID, user); err != nil {
		respondProjectError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetProjectActivityLogs
// @Summary List a project's activity logs
// @Tags projects
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} activity_logs.GetActivityLogsResponse
// @Failure 404
// @Router /projects/{projectId}/activity-logs [get]
func (c *ProjectController) GetProjectActivityLogs(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	err = c.projectService.RequireRole(
		projectID,
		user.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
		users_enums.ProjectRoleViewer,
	)
	if err != nil {
		respondProjectError(ctx, err)
		return
	}

	var request activity_logs.GetActivityLogsRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.activityLogService.GetProjectActivityLogs(projectID, &request)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activity logs"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func respondProjectError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, projects_services.ErrProjectNotFound),
		errors.Is(err, projects_services.ErrMemberNotFound),
		errors.Is(err, projects_services.ErrUserNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, projects_services.ErrAlreadyMember):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, projects_services.ErrOwnerImmutable):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, projects_services.ErrInvalidRole):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
