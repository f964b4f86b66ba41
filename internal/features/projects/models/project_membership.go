package projects_models

import (
	"time"

	users_enums "inovadata/internal/features/users/enums"

	"github.com/google/uuid"
)

// ProjectMembership is unique per (project, user); the owner row is created
// together with its project and only disappears with it.
type ProjectMembership struct {
	ID        uuid.UUID               `json:"id"        gorm:"column:id"`
	UserID    uuid.UUID               `json:"userId"    gorm:"column:user_id;uniqueIndex:uq_project_memberships_project_user"`
	ProjectID uuid.UUID               `json:"projectId" gorm:"column:project_id;uniqueIndex:uq_project_memberships_project_user"`
	Role      users_enums.ProjectRole `json:"role"      gorm:"column:role"`
	CreatedAt time.Time               `json:"createdAt" gorm:"column:created_at"`
}

func (ProjectMembership) TableName() string {
	return "project_memberships"
}
