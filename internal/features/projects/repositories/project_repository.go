package projects_repositories

import (
	"errors"
	"time"

	projects_models "inovadata/internal/features/projects/models"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct{}

func (r *ProjectRepository) CreateProjectTx(tx *gorm.DB, project *projects_models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	if project.Status == "" {
		project.Status = projects_models.ProjectStatusActive
	}

	return tx.Create(project).Error
}

func (r *ProjectRepository) GetProjectByID(projectID uuid.UUID) (*projects_models.Project, error) {
	var project projects_models.Project

	err := storage.GetDb().
		Where("id = ?", projectID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &project, nil
}

// GetProjectsForUser returns every project the user belongs to, newest first.
func (r *ProjectRepository) GetProjectsForUser(userID uuid.UUID) ([]*projects_models.Project, error) {
	var projects []*projects_models.Project

	err := storage.GetDb().
		Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
		Where("project_memberships.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *ProjectRepository) GetPublicProjects(limit int, offset int) ([]*projects_models.Project, error) {
	var projects []*projects_models.Project

	err := storage.GetDb().
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *ProjectRepository) UpdateProjectTx(tx *gorm.DB, project *projects_models.Project) error {
	project.UpdatedAt = time.Now().UTC()

	return tx.Save(project).Error
}

func (r *ProjectRepository) DeleteProjectTx(tx *gorm.DB, projectID uuid.UUID) error {
	return tx.Where("id = ?", projectID).Delete(&projects_models.Project{}).Error
}
