package system

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SystemController struct {
	systemService *SystemService
}

func (c *SystemController) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.GetHealth)
}

func (c *SystemController) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/system/disk", c.GetDiskUsage)
}

// GetHealth
// @Summary Service health probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health [get]
func (c *SystemController) GetHealth(ctx *gin.Context) {
	health := c.systemService.GetHealth()

	code := http.StatusOK
	if health.Status != "ok" {
		code = http.StatusServiceUnavailable
	}

	ctx.JSON(code, health)
}

// GetDiskUsage
// @Summary Upload volume usage
// @Description Admin-only view of the disk that stores dataset artifacts
// @Tags system
// @Produce json
// @Security SessionAuth
// @Success 200 {object} DiskUsage
// @Router /system/disk [get]
func (c *SystemController) GetDiskUsage(ctx *gin.Context) {
	usage, err := c.systemService.GetUploadVolumeUsage()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read disk usage"})
		return
	}

	ctx.JSON(http.StatusOK, usage)
}
