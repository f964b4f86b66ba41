package projects_testing

import (
	"time"

	projects_models "inovadata/internal/features/projects/models"
	users_enums "inovadata/internal/features/users/enums"
	"inovadata/internal/storage"

	"github.com/google/uuid"
)

// CreateTestProject inserts a project with its owner membership directly,
// bypassing the service layer so tests can shape fixtures freely.
func CreateTestProject(ownerID uuid.UUID) (*projects_models.Project, error) {
	now := time.Now().UTC()

	project := &projects_models.Project{
		ID:        uuid.New(),
		Name:      "test-project-" + uuid.New().String()[:8],
		OwnerID:   ownerID,
		IsPublic:  false,
		Status:    projects_models.ProjectStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := storage.GetDb().Create(project).Error; err != nil {
		return nil, err
	}

	membership := &projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    ownerID,
		ProjectID: project.ID,
		Role:      users_enums.ProjectRoleOwner,
		CreatedAt: now,
	}

	if err := storage.GetDb().Create(membership).Error; err != nil {
		return nil, err
	}

	return project, nil
}

func AddTestMember(
	projectID uuid.UUID,
	userID uuid.UUID,
	role users_enums.ProjectRole,
) (*projects_models.ProjectMembership, error) {
	membership := &projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if err := storage.GetDb().Create(membership).Error; err != nil {
		return nil, err
	}

	return membership, nil
}
