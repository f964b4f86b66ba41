package activity_logs

import (
	"time"

	activity_models "inovadata/internal/features/activity/models"

	"github.com/google/uuid"
)

type ActivityLogDTO struct {
	ID           uuid.UUID               `json:"id"`
	UserID       *uuid.UUID              `json:"userId"`
	ProjectID    *uuid.UUID              `json:"projectId"`
	Action       string                  `json:"action"`
	ResourceType string                  `json:"resourceType"`
	ResourceID   *uuid.UUID              `json:"resourceId"`
	Details      activity_models.Details `json:"details"`
	CreatedAt    time.Time               `json:"createdAt"`
	Username     *string                 `json:"username,omitempty"`
	ProjectName  *string                 `json:"projectName,omitempty"`
}

type GetActivityLogsRequest struct {
	Limit      int        `form:"limit"      json:"limit"`
	Offset     int        `form:"offset"     json:"offset"`
	BeforeDate *time.Time `form:"beforeDate" json:"beforeDate"`
}

type GetActivityLogsResponse struct {
	ActivityLogs []*ActivityLogDTO `json:"activityLogs"`
	Total        int64             `json:"total"`
	Limit        int               `json:"limit"`
	Offset       int               `json:"offset"`
}
