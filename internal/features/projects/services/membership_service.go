package projects_services

import (
	"errors"
	"fmt"
	"log/slog"

	activity_logs "inovadata/internal/features/activity"
	activity_models "inovadata/internal/features/activity/models"
	projects_dto "inovadata/internal/features/projects/dto"
	projects_models "inovadata/internal/features/projects/models"
	projects_repositories "inovadata/internal/features/projects/repositories"
	users_enums "inovadata/internal/features/users/enums"
	users_models "inovadata/internal/features/users/models"
	users_services "inovadata/internal/features/users/services"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipService struct {
	membershipRepository *projects_repositories.MembershipRepository
	projectService       *ProjectService
	userService          *users_services.UserService
	activityLogService   *activity_logs.ActivityLogService
	logger               *slog.Logger
}

func (s *MembershipService) GetMembers(
	projectID uuid.UUID,
	user *users_models.User,
) ([]*projects_dto.MemberDTO, error) {
	err := s.projectService.RequireRole(
		projectID,
		user.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
		users_enums.ProjectRoleViewer,
	)
	if err != nil {
		return nil, err
	}

	records, err := s.membershipRepository.GetProjectMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}

	members := make([]*projects_dto.MemberDTO, 0, len(records))
	for _, record := range records {
		members = append(members, &projects_dto.MemberDTO{
			MembershipID: record.MembershipID,
			UserID:       record.UserID,
			Username:     record.Username,
			Email:        record.Email,
			Role:         users_enums.ProjectRole(record.Role),
			JoinedAt:     record.JoinedAt,
		})
	}

	return members, nil
}

// AddMember grants a user access by email. Owners and editors can invite;
// only editor and viewer roles can be granted this way.
func (s *MembershipService) AddMember(
	projectID uuid.UUID,
	actor *users_models.User,
	request *projects_dto.AddMemberRequestDTO,
) (*projects_models.ProjectMembership, error) {
	err := s.projectService.RequireRole(
		projectID,
		actor.ID,
		users_enums.ProjectRoleOwner,
		users_enums.ProjectRoleEditor,
	)
	if err != nil {
		return nil, err
	}

	if !request.Role.IsAssignable() {
		return nil, ErrInvalidRole
	}

	targetUser, err := s.userService.GetUserByEmail(request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if targetUser == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.membershipRepository.GetMembership(projectID, targetUser.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	membership := &projects_models.ProjectMembership{
		UserID:    targetUser.ID,
		ProjectID: projectID,
		Role:      request.Role,
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.membershipRepository.CreateMembershipTx(tx, membership); err != nil {
			return err
		}

		return s.activityLogService.WriteTx(
			tx,
			&actor.ID,
			&projectID,
			"member.added",
			"membership",
			&membership.ID,
			activity_models.Details{"email": request.Email, "role": string(request.Role)},
		)
	})
	if err != nil {
		if errors.Is(err, projects_repositories.ErrDuplicateMembership) {
			return nil, ErrAlreadyMember
		}

		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return membership, nil
}

// ChangeMemberRole is owner-only. The owner's own membership is immutable.
func (s *MembershipService) ChangeMemberRole(
	projectID uuid.UUID,
	actor *users_models.User,
	memberUserID uuid.UUID,
	request *projects_dto.ChangeMemberRoleRequestDTO,
) error {
	err := s.projectService.RequireRole(projectID, actor.ID, users_enums.ProjectRoleOwner)
	if err != nil {
		return err
	}

	if !request.Role.IsAssignable() {
		return ErrInvalidRole
	}

	membership, err := s.membershipRepository.GetMembership(projectID, memberUserID)
	if err != nil {
		return fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil {
		return ErrMemberNotFound
	}

	if membership.Role == users_enums.ProjectRoleOwner {
		return ErrOwnerImmutable
	}

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		err := s.membershipRepository.UpdateMembershipRoleTx(tx, membership.ID, request.Role)
		if err != nil {
			return fmt.Errorf("failed to change member role: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&actor.ID,
			&projectID,
			"member.role_changed",
			"membership",
			&membership.ID,
			activity_models.Details{
				"userId": memberUserID.String(),
				"from":   string(membership.Role),
				"to":     string(request.Role),
			},
		)
	})
}

// RemoveMember is owner-only and never removes the owner's own membership.
func (s *MembershipService) RemoveMember(
	projectID uuid.UUID,
	actor *users_models.User,
	memberUserID uuid.UUID,
) error {
	err := s.projectService.RequireRole(projectID, actor.ID, users_enums.ProjectRoleOwner)
	if err != nil {
		return err
	}

	membership, err := s.membershipRepository.GetMembership(projectID, memberUserID)
	if err != nil {
		return fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil {
		return ErrMemberNotFound
	}

	if membership.Role == users_enums.ProjectRoleOwner {
		return ErrOwnerImmutable
	}

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.membershipRepository.DeleteMembershipTx(tx, membership.ID); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}

		return s.activityLogService.WriteTx(
			tx,
			&actor.ID,
			&projectID,
			"member.removed",
			"membership",
			&membership.ID,
			activity_models.Details{"userId": memberUserID.String()},
		)
	})
}
