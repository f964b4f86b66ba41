package datasets_controllers

import (
	"net/http"
	"strconv"

	datasets_dto "inovadata/internal/features/datasets/dto"
	datasets_services "inovadata/internal/features/datasets/services"
	users_middleware "inovadata/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VersionController struct {
	versionerService *datasets_services.VersionerService
}

func (c *VersionController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/datasets/:datasetId/preprocess", c.PreprocessDataset)
	router.GET("/datasets/:datasetId/versions", c.GetVersions)
	router.GET("/datasets/:datasetId/versions/:versionNumber", c.GetVersion)
	router.POST("/datasets/:datasetId/versions", c.CreateVersion)
}

// PreprocessDataset
// @Summary Apply a preprocessing transform
// @Description Produces a new versioned artifact, appends to the preprocessing history and re-processes the dataset
// @Tags versions
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Param request body datasets_dto.PreprocessRequestDTO true "Transform to apply"
// @Success 200 {object} datasets_dto.DatasetResponseDTO
// @Failure 400
// @Failure 404
// @Failure 502
// @Router /datasets/{datasetId}/preprocess [post]
func (c *VersionController) PreprocessDataset(ctx *gin.Context) {
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

	var request datasets_dto.PreprocessRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	dataset, err := c.versionerService.ApplyTransform(ctx.Request.Context(), datasetID, user, &request)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, datasets_dto.DatasetResponseDTO{Dataset: dataset})
}

// GetVersions
// @Summary List dataset versions
// @Tags versions
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Success 200 {object} datasets_dto.ListVersionsResponseDTO
// @Failure 404
// @Router /datasets/{datasetId}/versions [get]
func (c *VersionController) GetVersions(ctx *gin.Context) {
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

	versions, err := c.versionerService.GetVersions(datasetID, user)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, datasets_dto.ListVersionsResponseDTO{Versions: versions})
}

// GetVersion
// @Summary Get a single dataset version
// @Tags versions
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Param versionNumber path int true "Version number"
// @Success 200 {object} datasets_dto.VersionResponseDTO
// @Failure 404
// @Router /datasets/{datasetId}/versions/{versionNumber} [get]
func (c *VersionController) GetVersion(ctx *gin.Context) {
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

	versionNumber, err := strconv.Atoi(ctx.Param("versionNumber"))
	if err != nil || versionNumber < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version number"})
		return
	}

	version, err := c.versionerService.GetVersion(datasetID, versionNumber, user)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, datasets_dto.VersionResponseDTO{Version: version})
}

// CreateVersion
// @Summary Snapshot the dataset as a new version
// @Description Assigns the next version number and freezes the current artifact and history
// @Tags versions
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param datasetId path string true "Dataset ID"
// @Param request body datasets_dto.CreateVersionRequestDTO true "Version description"
// @Success 201 {object} datasets_dto.VersionResponseDTO
// @Failure 404
// @Router /datasets/{datasetId}/versions [post]
func (c *VersionController) CreateVersion(ctx *gin.Context) {
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

	var request datasets_dto.CreateVersionRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	version, err := c.versionerService.CreateVersion(datasetID, user, &request)
	if err != nil {
		respondDatasetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, datasets_dto.VersionResponseDTO{Version: version})
}
