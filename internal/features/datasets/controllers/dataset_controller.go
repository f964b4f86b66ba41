package datasets_controllers

import (
	"errors"
	"net/http"

	datasets_dto "inovadata/internal/features/datasets/dto"
	datasets_services "inovadata/internal/features/datasets/services"
	users_middleware "inovadata/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DatasetController struct {
	datasetService *datasets_services.DatasetService
}

func (c *DatasetController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/projects/:projectId/datasets", c.UploadDataset)
	router.GET("/projects/:projectId/datasets", c.GetProjectDatasets)
	router.GET("/datasets/:datasetId", c.GetDataset)
	router.PUT("/datasets/:datasetId", c.UpdateDataset)
	router.DELETE("/datasets/:datasetId", c.DeleteDataset)
	router.POST("/datasets/:datasetId/retry", c.RetryProcessing)
	router.GET("/datasets/:datasetId/preview", c.PreviewDataset)
	router.POST("/datasets/:datasetId/analyze", c.AnalyzeDataset)
}

// UploadDataset
// @Summary Upload a dataset file
// @Description Stores the file, creates the dataset in pending state and submits it for processing
// @Tags datasets
// @Accept multipart/form-data
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param file formData file true "Dataset file (csv, arff or json)"
// @Param name formData string false "Display name, defaults to the file name"
// @Param description formData string false "Description"
// @Success 201 {object} datasets_dto.DatasetResponseDTO
// @Failure 400
// @Failure 404
// @Router /projects/{projectId}/datasets [post]
func (c *DatasetController) UploadDataset(ctx *gin.Context) {
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

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing dataset file"})
		return
	}

	var description *string
	if value := ctx.PostForm("description"); value != "" {
		description = &value
	}

	dataset, err := c.datasetService.UploadDataset(
		projectID,
		user,
		fileHeader,
		ctx.PostForm("name"),
		description,
	)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, datasets_dto.DatasetResponseDTO{Dataset: dataset})
}

// GetProjectDatasets
// @Summary List a project's datasets
// @Tags datasets
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} datasets_dto.ListDatasetsResponseDTO
// @Failure 404
// @Router /projects/{projectId}/datasets [get]
func (c *DatasetController) GetProjectDatasets(ctx *gin.Context) {
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

	datasets, err := c.datasetService.GetProjectDatasets(projectID, user)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, datasets_dto.ListDatasetsResponseDTO{Datasets: datasets})
}

// GetDataset
// @Summary Get a single dataset
// @Description Includes processing status, analysis results and preprocessing history
// @Tags datasets
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Success 200 {object} datasets_dto.DatasetResponseDTO
// @Failure 404
// @Router /datasets/{datasetId} [get]
func (c *DatasetController) GetDataset(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	datasetID, err := uuid.Parse(ctx.Param("datasetId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	dataset, err := c.datasetService.GetDataset(datasetID, user)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, datasets_dto.DatasetResponseDTO{Dataset: dataset})
}

// UpdateDataset
// @Summary Update dataset name and description
// @Tags datasets
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Param request body datasets_dto.UpdateDatasetRequestDTO true "Fields to update"
// @Success 200 {object} datasets_dto.DatasetResponseDTO
// @Failure 404
// @Router /datasets/{datasetId} [put]
func (c *DatasetController) UpdateDataset(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	datasetID, err := uuid.Parse(ctx.Param("datasetId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	var request datasets_dto.UpdateDatasetRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	dataset, err := c.datasetService.UpdateDataset(datasetID, user, &request)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, datasets_dto.DatasetResponseDTO{Dataset: dataset})
}

// DeleteDataset
// @Summary Delete a dataset
// @Description Owners and editors only; removes versions and the stored file
// @Tags datasets
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Success 204
// @Failure 404
// @Router /datasets/{datasetId} [delete]
func (c *DatasetController) DeleteDataset(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	datasetID, err := uuid.Parse(ctx.Param("datasetId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	if err := c.datasetService.DeleteDataset(datasetID, user); err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RetryProcessing
// @Summary Retry dataset processing
// @Description Clears the previous error, resets the dataset to pending and re-enqueues it
// @Tags datasets
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Success 202
// @Failure 400
// @Failure 404
// @Router /datasets/{datasetId}/retry [post]
func (c *DatasetController) RetryProcessing(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	datasetID, err := uuid.Parse(ctx.Param("datasetId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	if err := c.datasetService.RetryProcessing(datasetID, user); err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{"message": "Dataset queued for processing"})
}

// PreviewDataset
// @Summary Preview dataset rows
// @Tags datasets
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Param limit query int false "Rows per page"
// @Param offset query int false "Row offset"
// @Success 200 {object} datasets_dto.PreviewResponseDTO
// @Failure 404
// @Failure 502
// @Router /datasets/{datasetId}/preview [get]
func (c *DatasetController) PreviewDataset(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	datasetID, err := uuid.Parse(ctx.Param("datasetId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	var request datasets_dto.PreviewRequestDTO
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	preview, err := c.datasetService.Preview(ctx.Request.Context(), datasetID, user, &request)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, preview)
}

// AnalyzeDataset
// @Summary Run advanced column analysis
// @Tags datasets
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Param request body datasets_dto.AdvancedAnalysisRequestDTO true "Analysis options"
// @Success 200 {object} datasets_dto.AdvancedAnalysisResponseDTO
// @Failure 404
// @Failure 502
// @Router /datasets/{datasetId}/analyze [post]
func (c *DatasetController) AnalyzeDataset(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	datasetID, err := uuid.Parse(ctx.Param("datasetId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	var request datasets_dto.AdvancedAnalysisRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	analysis, err := c.datasetService.AnalyzeAdvanced(ctx.Request.Context(), datasetID, user, &request)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, analysis)
}

func respondDatasetError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, datasets_services.ErrDatasetNotFound),
		errors.Is(err, datasets_services.ErrVersionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, datasets_services.ErrNoArtifact),
		errors.Is(err, datasets_services.ErrUnsupportedFormat),
		errors.Is(err, datasets_services.ErrFileTooLarge),
		errors.Is(err, datasets_services.ErrEmptyFile):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
