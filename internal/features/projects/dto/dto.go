package projects_dto

import (
	"time"

	projects_models "inovadata/internal/features/projects/models"
	users_enums "inovadata/internal/features/users/enums"

	"github.com/google/uuid"
)

type CreateProjectRequestDTO struct {
	Name        string                   `json:"name" binding:"required,min=1,max=255"`
	Description *string                  `json:"description,omitempty"`
	IsPublic    bool                     `json:"isPublic"`
	Metadata    projects_models.Metadata `json:"metadata,omitempty"`
}

type UpdateProjectRequestDTO struct {
	Name        *string                  `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string                  `json:"description,omitempty"`
	IsPublic    *bool                    `json:"isPublic,omitempty"`
	Status      *string                  `json:"status,omitempty" binding:"omitempty,oneof=active archived"`
	Metadata    projects_models.Metadata `json:"metadata,omitempty"`
}

type ProjectResponseDTO struct {
	Project     *projects_models.Project `json:"project"`
	CurrentRole users_enums.ProjectRole  `json:"currentRole,omitempty"`
}

type ListProjectsResponseDTO struct {
	Projects []*projects_models.Project `json:"projects"`
}

type AddMemberRequestDTO struct {
	Email string                  `json:"email" binding:"required,email"`
	Role  users_enums.ProjectRole `json:"role" binding:"required"`
}

type ChangeMemberRoleRequestDTO struct {
	Role users_enums.ProjectRole `json:"role" binding:"required"`
}

type MemberDTO struct {
	MembershipID uuid.UUID               `json:"membershipId"`
	UserID       uuid.UUID               `json:"userId"`
	Username     string                  `json:"username"`
	Email        string                  `json:"email"`
	Role         users_enums.ProjectRole `json:"role"`
	JoinedAt     time.Time               `json:"joinedAt"`
}

type ListMembersResponseDTO struct {
	Members []*MemberDTO `json:"members"`
}
