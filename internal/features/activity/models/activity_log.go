package activity_models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Details is a free-form JSON column describing the mutation (e.g. the role
// granted when a member is added).
type Details map[string]any

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}

	return json.Marshal(d)
}

func (d *Details) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}

	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, d)
	case string:
		return json.Unmarshal([]byte(data), d)
	default:
		return errors.New("unsupported type for activity details")
	}
}

// ActivityLog rows are write-once. There is deliberately no update or
// delete path anywhere in the codebase.
type ActivityLog struct {
	ID           uuid.UUID  `json:"id"           gorm:"column:id"`
	UserID       *uuid.UUID `json:"userId"       gorm:"column:user_id"`
	ProjectID    *uuid.UUID `json:"projectId"    gorm:"column:project_id"`
	Action       string     `json:"action"       gorm:"column:action"`
	ResourceType string     `json:"resourceType" gorm:"column:resource_type"`
	ResourceID   *uuid.UUID `json:"resourceId"   gorm:"column:resource_id"`
	Details      Details    `json:"details"      gorm:"column:details;type:jsonb"`
	CreatedAt    time.Time  `json:"createdAt"    gorm:"column:created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
