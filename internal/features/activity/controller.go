package activity_logs

import (
	"net/http"

	users_middleware "inovadata/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
)

type ActivityLogController struct {
	activityLogService *ActivityLogService
}

func (c *ActivityLogController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity-logs", c.GetGlobalActivityLogs)
}

// GetGlobalActivityLogs
// @Summary List global activity logs
// @Description Admin-only paginated view over every recorded mutation
// @Tags activity-logs
// @Produce json
// @Security SessionAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} GetActivityLogsResponse
// @Failure 403
// @Router /activity-logs [get]
func (c *ActivityLogController) GetGlobalActivityLogs(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request GetActivityLogsRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.activityLogService.GetGlobalActivityLogs(user, &request)
	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
