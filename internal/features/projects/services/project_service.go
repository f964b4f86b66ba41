package projects_services

import (
	"fmt"
	"log/slog"
	"slices"

	activity_logs "inovadata/internal/features/activity"
	activity_models "inovadata/internal/features/activity/models"
	projects_dto "inovadata/internal/features/projects/dto"
	projects_interfaces "inovadata/internal/features/projects/interfaces"
	projects_models "inovadata/internal/features/projects/models"
	projects_repositories "inovadata/internal/features/projects/repositories"
	users_enums "inovadata/internal/features/users/enums"
	users_models "inovadata/internal/features/users/models"
	"inovadata/internal/storage"
	cache_utils "inovadata/internal/util/cache"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type ProjectService struct {
	projectRepository    *projects_repositories.ProjectRepository
	membershipRepository *projects_repositories.MembershipRepository
	activityLogService   *activity_logs.ActivityLogService
	projectCache         *cache_utils.CacheUtil[projects_models.Project]
	logger               *slog.Logger

	fetchGroup        singleflight.Group
	deletionListeners []projects_interfaces.ProjectDeletionListener
}

// AddDeletionListener registers a feature that owns project-scoped data.
// Must be called during startup wiring, before requests are served.
func (s *ProjectService) AddDeletionListener(listener projects_interfaces.ProjectDeletionListener) {
	s.deletionListeners = append(s.deletionListeners, listener)
}

// HasRole reports whether the user holds one of the allowed roles in the
// project. A missing membership and an insufficient role both yield false;
// results are never cached.
func (s *ProjectService) HasRole(
	projectID uuid.UUID,
	userID uuid.UUID,
	allowedRoles ...users_enums.ProjectRole,
) (bool, error) {
	role, err := s.membershipRepository.GetUserProjectRole(projectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to look up project role: %w", err)
	}

	if role == nil {
		return false, nil
	}

	return slices.Contains(allowedRoles, *role), nil
}

// RequireRole is the guard in front of every project-scoped mutation. Denial
// and absence collapse into the same ErrProjectNotFound.
func (s *ProjectService) RequireRole(
	projectID uuid.UUID,
	userID uuid.UUID,
	allowedRoles ...users_enums.ProjectRole,
) error {
	allowed, err := s.HasRole(projectID, userID, allowedRoles...)
	if err != nil {
		return err
	}

	if !allowed {
		return ErrProjectNotFound
	}

	return nil
}

func (s *ProjectService) CreateProject(
	user *users_models.User,
	request *projects_dto.CreateProjectRequestDTO,
) (*projects_models.Project, error) {
	project := &projects_models.Project{
		ID:          uuid.New(),
		Name:        request.Name,
		Description: request.Description,
		OwnerID:     user.ID,
		IsPublic:    request.IsPublic,
		Status:      projects_models.ProjectStatusActive,
		Metadata:    request.Metadata,
	}

	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepository.CreateProjectTx(tx, project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		ownerMembership := &projects_models.ProjectMembership{
			UserID:    user.ID,
			ProjectID: project.ID,
			Role:      users_enums.ProjectRoleOwner,
		}

		if err := s.membershipRepository.CreateMembershipTx(tx, ownerMembership); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&project.ID,
			"project.created",
			"project",
			&project.ID,
			activity_models.Details{"name": project.Name},
		)
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// GetProject returns the project together with the caller's effective role.
// Members see it through their membership; public projects are readable by
// any signed-in user as a viewer.
func (s *ProjectService) GetProject(
	projectID uuid.UUID,
	user *users_models.User,
) (*projects_models.Project, users_enums.ProjectRole, error) {
	project, err := s.getProjectByID(projectID)
	if err != nil {
		return nil, "", err
	}

	if project == nil {
		return nil, "", ErrProjectNotFound
	}

	role, err := s.membershipRepository.GetUserProjectRole(projectID, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up project role: %w", err)
	}

	if role != nil {
		return project, *role, nil
	}

	if project.IsPublic {
		return project, users_enums.ProjectRoleViewer, nil
	}

	return nil, "", ErrProjectNotFound
}

func (s *ProjectService) GetUserProjects(user *users_models.User) ([]*projects_models.Project, error) {
	return s.projectRepository.GetProjectsForUser(user.ID)
}

func (s *ProjectService) GetPublicProjects(limit int, offset int) ([]*projects_models.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return s.projectRepository.GetPublicProjects(limit, max(offset, 0))
}

func (s *ProjectService) UpdateProject(
	projectID uuid.UUID,
	user *users_models.User,
	request *projects_dto.UpdateProjectRequestDTO,
) (*projects_models.Project, error) {
	err := s.RequireRole(projectID, user.ID, users_enums.ProjectRoleOwner, users_enums.ProjectRoleEditor)
	if err != nil {
		return nil, err
	}

	project, err := s.getProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	changed := activity_models.Details{}

	if request.Name != nil {
		project.Name = *request.Name
		changed["name"] = *request.Name
	}
	if request.Description != nil {
		project.Description = request.Description
		changed["description"] = *request.Description
	}
	if request.IsPublic != nil {
		project.IsPublic = *request.IsPublic
		changed["isPublic"] = *request.IsPublic
	}
	if request.Status != nil {
		project.Status = projects_models.ProjectStatus(*request.Status)
		changed["status"] = *request.Status
	}
	if request.Metadata != nil {
		project.Metadata = request.Metadata
		changed["metadata"] = "updated"
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepository.UpdateProjectTx(tx, project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			&project.ID,
			"project.updated",
			"project",
			&project.ID,
			changed,
		)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProjectCache(projectID)

	return project, nil
}

// DeleteProject removes the project and everything scoped to it. Listeners
// clean up their feature's rows and files first; they run before the final
// transaction so a listener failure leaves the project intact.
func (s *ProjectService) DeleteProject(projectID uuid.UUID, user *users_models.User) error {
	if err := s.RequireRole(projectID, user.ID, users_enums.ProjectRoleOwner); err != nil {
		return err
	}

	project, err := s.getProjectByID(projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}

	for _, listener := range s.deletionListeners {
		if err := listener.OnBeforeProjectDeletion(projectID); err != nil {
			return fmt.Errorf("failed to clean up project data: %w", err)
		}
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.membershipRepository.DeleteProjectMembershipsTx(tx, projectID); err != nil {
			return fmt.Errorf("failed to delete project memberships: %w", err)
		}

		if err := s.projectRepository.DeleteProjectTx(tx, projectID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&user.ID,
			nil,
			"project.deleted",
			"project",
			&projectID,
			activity_models.Details{"name": project.Name},
		)
	})
	if err != nil {
		return err
	}

	s.invalidateProjectCache(projectID)

	return nil
}

// getProjectByID serves reads through the cache. Concurrent misses for the
// same project collapse into a single database query.
func (s *ProjectService) getProjectByID(projectID uuid.UUID) (*projects_models.Project, error) {
	if s.projectCache == nil {
		return s.projectRepository.GetProjectByID(projectID)
	}

	cacheKey := projectID.String()

	if cached := s.projectCache.Get(cacheKey); cached != nil {
		return cached, nil
	}

	result, err, _ := s.fetchGroup.Do(cacheKey, func() (any, error) {
		project, err := s.projectRepository.GetProjectByID(projectID)
		if err != nil {
			return nil, err
		}

		if project != nil {
			s.projectCache.Set(cacheKey, project)
		}

		return project, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*projects_models.Project), nil
}

func (s *ProjectService) invalidateProjectCache(projectID uuid.UUID) {
	if s.projectCache != nil {
		s.projectCache.Invalidate(projectID.String())
	}
}
