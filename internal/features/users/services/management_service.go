package users_services

import (
	"errors"
	"fmt"
	"log/slog"

	users_dto "inovadata/internal/features/users/dto"
	users_models "inovadata/internal/features/users/models"
	users_repositories "inovadata/internal/features/users/repositories"

	"github.com/google/uuid"
)

var ErrNotAdmin = errors.New("only administrators can manage users")

type ManagementService struct {
	userRepository    *users_repositories.UserRepository
	sessionRepository *users_repositories.SessionRepository
	logger            *slog.Logger
}

func (s *ManagementService) ListUsers(
	actor *users_models.User,
	request *users_dto.ListUsersRequestDTO,
) (*users_dto.ListUsersResponseDTO, error) {
	if !actor.IsAdmin {
		return nil, ErrNotAdmin
	}

	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	offset := max(request.Offset, 0)

	users, total, err := s.userRepository.GetUsers(limit, offset, request.BeforeDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]users_dto.UserProfileResponseDTO, len(users))
	for i, user := range users {
		profiles[i] = users_dto.UserProfileResponseDTO{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FullName:  user.FullName,
			AvatarURL: user.AvatarURL,
			IsActive:  user.IsActive,
			IsAdmin:   user.IsAdmin,
			CreatedAt: user.CreatedAt,
		}
	}

	return &users_dto.ListUsersResponseDTO{Users: profiles, Total: total}, nil
}

// DeactivateUser soft-disables the account. Existing sessions die at the
// next validation because validation re-checks the active flag.
func (s *ManagementService) DeactivateUser(actor *users_models.User, userID uuid.UUID) error {
	if !actor.IsAdmin {
		return ErrNotAdmin
	}

	if actor.ID == userID {
		return errors.New("cannot deactivate your own account")
	}

	if err := s.userRepository.UpdateUserActive(userID, false); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	if err := s.sessionRepository.DeleteSessionsByUser(userID); err != nil {
		s.logger.Error("failed to delete sessions of deactivated user", "error", err)
	}

	return nil
}

func (s *ManagementService) ActivateUser(actor *users_models.User, userID uuid.UUID) error {
	if !actor.IsAdmin {
		return ErrNotAdmin
	}

	if err := s.userRepository.UpdateUserActive(userID, true); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	return nil
}
