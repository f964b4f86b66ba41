package projects_models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}

	return json.Marshal(m)
}

func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, m)
	case string:
		return json.Unmarshal([]byte(data), m)
	default:
		return errors.New("unsupported type for project metadata")
	}
}

type Project struct {
	ID          uuid.UUID     `json:"id"          gorm:"column:id"`
	Name        string        `json:"name"        gorm:"column:name"`
	Description *string       `json:"description" gorm:"column:description"`
	OwnerID     uuid.UUID     `json:"ownerId"     gorm:"column:owner_id"`
	IsPublic    bool          `json:"isPublic"    gorm:"column:is_public"`
	Status      ProjectStatus `json:"status"      gorm:"column:status"`
	Metadata    Metadata      `json:"metadata"    gorm:"column:metadata;type:jsonb"`
	CreatedAt   time.Time     `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time     `json:"updatedAt"   gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
