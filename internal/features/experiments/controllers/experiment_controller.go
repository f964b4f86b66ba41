package experiments_controllers

import (
	"errors"
	"net/http"

	experiments_dto "inovadata/internal/features/experiments/dto"
	experiments_services "inovadata/internal/features/experiments/services"
	users_middleware "inovadata/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExperimentController struct {
	experimentService *experiments_services.ExperimentService
}

func (c *ExperimentController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/projects/:projectId/experiments", c.CreateExperiment)
	router.GET("/projects/:projectId/experiments", c.GetProjectExperiments)
	router.POST("/projects/:projectId/experiments/compare", c.CompareExperiments)
	router.GET("/experiments/:experimentId", c.GetExperiment)
	router.PUT("/experiments/:experimentId/status", c.UpdateStatus)
	router.POST("/experiments/:experimentId/results", c.SaveResults)
	router.DELETE("/experiments/:experimentId", c.DeleteExperiment)
}

// CreateExperiment
// @Summary Create an experiment
// @Description Owners and editors can create experiments against a dataset of the same project
// @Tags experiments
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param request body experiments_dto.CreateExperimentRequestDTO true "Experiment data"
// @Success 201 {object} experiments_dto.ExperimentResponseDTO
// @Failure 400
// @Failure 404
// @Router /projects/{projectId}/experiments [post]
func (c *ExperimentController) CreateExperiment(ctx *gin.Context) {
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

	var request experiments_dto.CreateExperimentRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	experiment, err := c.experimentService.CreateExperiment(projectID, user, &request)
	if err != nil {
		respondExperimentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, experiments_dto.ExperimentResponseDTO{Experiment: experiment})
}

// GetProjectExperiments
// @Summary List a project's experiments
// @Tags experiments
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} experiments_dto.ListExperimentsResponseDTO
// @Failure 404
// @Router /projects/{projectId}/experiments [get]
func (c *ExperimentController) GetProjectExperiments(ctx *gin.Context) {
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

	experiments, err := c.experimentService.GetProjectExperiments(projectID, user)
	if err != nil {
		respondExperimentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, experiments_dto.ListExperimentsResponseDTO{Experiments: experiments})
}

// CompareExperiments
// @Summary Compare experiments of a project side by side
// @Tags experiments
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param request body experiments_dto.CompareExperimentsRequestDTO true "Experiment IDs to compare"
// @Success 200 {object} experiments_dto.CompareExperimentsResponseDTO
// @Failure 404
// @Router /projects/{projectId}/experiments/compare [post]
func (c *ExperimentController) CompareExperiments(ctx *gin.Context) {
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

	var request experiments_dto.CompareExperimentsRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	entries, err := c.experimentService.CompareExperiments(projectID, user, request.ExperimentIDs)
	if err != nil {
		respondExperimentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, experiments_dto.CompareExperimentsResponseDTO{Experiments: entries})
}

// GetExperiment
// @Summary Get an experiment with its result
// @Tags experiments
// @Produce json
// @Security SessionAuth
// @Param experimentId path string true "Experiment ID"
// @Success 200 {object} experiments_dto.ExperimentResponseDTO
// @Failure 404
// @Router /experiments/{experimentId} [get]
func (c *ExperimentController) GetExperiment(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	experimentID, err := uuid.Parse(ctx.Param("experimentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experiment ID"})
		return
	}

	experiment, result, err := c.experimentService.GetExperiment(experimentID, user)
	if err != nil {
		respondExperimentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, experiments_dto.ExperimentResponseDTO{
		Experiment: experiment,
		Result:     result,
	})
}

// UpdateStatus
// @Summary Update experiment status and progress
// @Tags experiments
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param experimentId path string true "Experiment ID"
// @Param request body experiments_dto.UpdateStatusRequestDTO true "New status"
// @Success 200 {object} experiments_dto.ExperimentResponseDTO
// @Failure 400
// @Failure 404
// @Router /experiments/{experimentId}/status [put]
func (c *ExperimentController) UpdateStatus(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	experimentID, err := uuid.Parse(ctx.Param("experimentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experiment ID"})
		return
	}

	var request experiments_dto.UpdateStatusRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	experiment, err := c.experimentService.UpdateStatus(experimentID, user, &request)
	if err != nil {
		respondExperimentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, experiments_dto.ExperimentResponseDTO{Experiment: experiment})
}

// SaveResults
// @Summary Attach the result of a successful run
// @Description At most one result exists per experiment; a second call conflicts
// @Tags experiments
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param experimentId path string true "Experiment ID"
// @Param request body experiments_dto.SaveResultsRequestDTO true "Run results"
// @Success 201
// @Failure 404
// @Failure 409
// @Router /experiments/{experimentId}/results [post]
func (c *ExperimentController) SaveResults(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	experimentID, err := uuid.Parse(ctx.Param("experimentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experiment ID"})
		return
	}

	var request experiments_dto.SaveResultsRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := c.experimentService.SaveResults(experimentID, user, &request)
	if err != nil {
		respondExperimentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// DeleteExperiment
// @Summary Delete an experiment
// @Tags experiments
// @Security SessionAuth
// @Param experimentId path string true "Experiment ID"
// @Success 204
// @Failure 404
// @Router /experiments/{experimentId} [delete]
func (c *ExperimentController) DeleteExperiment(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	experimentID, err := uuid.Parse(ctx.Param("experimentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experiment ID"})
		return
	}

	if err := c.experimentService.DeleteExperiment(experimentID, user); err != nil {
		respondExperimentError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func respondExperimentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, experiments_services.ErrExperimentNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, experiments_services.ErrResultExists):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, experiments_services.ErrInvalidTransition),
		errors.Is(err, experiments_services.ErrDatasetMismatch):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
