package activity_logs

import (
	activity_models "inovadata/internal/features/activity/models"
	"inovadata/internal/storage"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogRepository struct{}

func (r *ActivityLogRepository) Create(entry *activity_models.ActivityLog) error {
	return r.CreateTx(storage.GetDb(), entry)
}

// CreateTx writes the entry through the given handle so callers can put the
// log row in the same transaction as the mutation it records.
func (r *ActivityLogRepository) CreateTx(tx *gorm.DB, entry *activity_models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	return tx.Create(entry).Error
}

func (r *ActivityLogRepository) GetByProject(
	projectID uuid.UUID,
	limit, offset int,
	beforeDate *time.Time,
) ([]*ActivityLogDTO, error) {
	var entries = make([]*ActivityLogDTO, 0)

	sql := `
		SELECT
			al.id,
			al.user_id,
			al.project_id,
			al.action,
			al.resource_type,
			al.resource_id,
			al.details,
			al.created_at,
			u.username as username
		FROM activity_logs al
		LEFT JOIN users u ON al.user_id = u.id
		WHERE al.project_id = ?`

	args := []interface{}{projectID}

	if beforeDate != nil {
		sql += " AND al.created_at < ?"
		args = append(args, *beforeDate)
	}

	sql += " ORDER BY al.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	err := storage.GetDb().Raw(sql, args...).Scan(&entries).Error

	return entries, err
}

func (r *ActivityLogRepository) GetGlobal(limit, offset int, beforeDate *time.Time) ([]*ActivityLogDTO, error) {
	var entries = make([]*ActivityLogDTO, 0)

	sql := `
		SELECT
			al.id,
			al.user_id,
			al.project_id,
			al.action,
			al.resource_type,
			al.resource_id,
			al.details,
			al.created_at,
			u.username as username,
			p.name as project_name
		FROM activity_logs al
		LEFT JOIN users u ON al.user_id = u.id
		LEFT JOIN projects p ON al.project_id = p.id`

	args := []interface{}{}

	if beforeDate != nil {
		sql += " WHERE al.created_at < ?"
		args = append(args, *beforeDate)
	}

	sql += " ORDER BY al.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	err := storage.GetDb().Raw(sql, args...).Scan(&entries).Error

	return entries, err
}

func (r *ActivityLogRepository) CountByProject(projectID uuid.UUID) (int64, error) {
	var count int64

	err := storage.GetDb().
		Model(&activity_models.ActivityLog{}).
		Where("project_id = ?", projectID).
		Count(&count).Error

	return count, err
}

func (r *ActivityLogRepository) CountGlobal() (int64, error) {
	var count int64

	err := storage.GetDb().
		Model(&activity_models.ActivityLog{}).
		Count(&count).Error

	return count, err
}
