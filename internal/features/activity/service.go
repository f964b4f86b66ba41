package activity_logs

import (
	"errors"
	"log/slog"
	"time"

	activity_models "inovadata/internal/features/activity/models"
	users_models "inovadata/internal/features/users/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogService struct {
	activityLogRepository *ActivityLogRepository
	logger                *slog.Logger
}

// WriteTx appends an entry through the caller's transaction so the log row
// commits or rolls back together with the mutation it records.
func (s *ActivityLogService) WriteTx(
	tx *gorm.DB,
	userID *uuid.UUID,
	projectID *uuid.UUID,
	action string,
	resourceType string,
	resourceID *uuid.UUID,
	details activity_models.Details,
) error {
	entry := &activity_models.ActivityLog{
		UserID:       userID,
		ProjectID:    projectID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now().UTC(),
	}

	return s.activityLogRepository.CreateTx(tx, entry)
}

// WriteActivityLog is the fire-and-forget variant for writes that happen
// outside an explicit transaction (e.g. the processing workers). Failures
// are logged, never propagated.
func (s *ActivityLogService) WriteActivityLog(
	userID *uuid.UUID,
	projectID *uuid.UUID,
	action string,
	resourceType string,
	resourceID *uuid.UUID,
	details activity_models.Details,
) {
	entry := &activity_models.ActivityLog{
		UserID:       userID,
		ProjectID:    projectID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.activityLogRepository.Create(entry); err != nil {
		s.logger.Error("failed to create activity log", "error", err)
	}
}

func (s *ActivityLogService) GetProjectActivityLogs(
	projectID uuid.UUID,
	request *GetActivityLogsRequest,
) (*GetActivityLogsResponse, error) {
	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	offset := max(request.Offset, 0)

	entries, err := s.activityLogRepository.GetByProject(projectID, limit, offset, request.BeforeDate)
	if err != nil {
		return nil, err
	}

	total, err := s.activityLogRepository.CountByProject(projectID)
	if err != nil {
		return nil, err
	}

	return &GetActivityLogsResponse{
		ActivityLogs: entries,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

func (s *ActivityLogService) GetGlobalActivityLogs(
	user *users_models.User,
	request *GetActivityLogsRequest,
) (*GetActivityLogsResponse, error) {
	if !user.IsAdmin {
		return nil, errors.New("only administrators can view global activity logs")
	}

	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	offset := max(request.Offset, 0)

	entries, err := s.activityLogRepository.GetGlobal(limit, offset, request.BeforeDate)
	if err != nil {
		return nil, err
	}

	total, err := s.activityLogRepository.CountGlobal()
	if err != nil {
		return nil, err
	}

	return &GetActivityLogsResponse{
		ActivityLogs: entries,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}
