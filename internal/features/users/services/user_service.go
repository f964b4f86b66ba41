package users_services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	users_dto "inovadata/internal/features/users/dto"
	users_models "inovadata/internal/features/users/models"
	users_repositories "inovadata/internal/features/users/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers every sign-in failure so callers can never
// tell which factor was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

var ErrUserAlreadyExists = errors.New("user with this username or email already exists")

const sessionLifetime = 7 * 24 * time.Hour

type UserService struct {
	userRepository    *users_repositories.UserRepository
	sessionRepository *users_repositories.SessionRepository
	logger            *slog.Logger
}

func (s *UserService) SignUp(request *users_dto.SignUpRequestDTO) (*users_models.User, error) {
	existingByUsername, err := s.userRepository.GetUserByUsername(request.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingByUsername != nil {
		return nil, ErrUserAlreadyExists
	}

	existingByEmail, err := s.userRepository.GetUserByEmail(request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingByEmail != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashedPasswordStr := string(hashedPassword)

	user := &users_models.User{
		ID:             uuid.New(),
		Username:       request.Username,
		Email:          request.Email,
		HashedPassword: &hashedPasswordStr,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	if request.FullName != "" {
		user.FullName = &request.FullName
	}

	if err := s.userRepository.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) SignIn(request *users_dto.SignInRequestDTO) (*users_dto.SignInResponseDTO, error) {
	user, err := s.userRepository.GetUserByIdentifier(request.Identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil || !user.IsActive || !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.CreateSession(user.ID)
	if err != nil {
		return nil, err
	}

	return &users_dto.SignInResponseDTO{
		UserID:    user.ID,
		Username:  user.Username,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *UserService) CreateSession(userID uuid.UUID) (*users_models.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &users_models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(sessionLifetime),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessionRepository.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession resolves a token to its user. It fails closed: an unknown,
// expired, or orphaned token yields nil, and so does a token whose user has
// been deactivated since the session was issued. Dead sessions are removed
// on sight.
func (s *UserService) ValidateSession(token string) (*users_models.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepository.GetSession(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session == nil {
		return nil, nil
	}

	if session.IsExpired(time.Now().UTC()) {
		if err := s.sessionRepository.DeleteSession(token); err != nil {
			s.logger.Error("failed to delete expired session", "error", err)
		}
		return nil, nil
	}

	user, err := s.userRepository.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session user: %w", err)
	}

	if user == nil {
		if err := s.sessionRepository.DeleteSession(token); err != nil {
			s.logger.Error("failed to delete orphaned session", "error", err)
		}
		return nil, nil
	}

	if !user.IsActive {
		return nil, nil
	}

	return user, nil
}

// ChangePassword requires the current password and invalidates every other
// session of the account, keeping only the session that made the change.
func (s *UserService) ChangePassword(
	user *users_models.User,
	currentToken string,
	request *users_dto.ChangePasswordRequestDTO,
) error {
	if !user.HasPassword() {
		return ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(
		[]byte(*user.HashedPassword), []byte(request.CurrentPassword))
	if err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepository.UpdateUserPassword(user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.sessionRepository.DeleteOtherSessions(user.ID, currentToken); err != nil {
		s.logger.Error("failed to delete sessions after password change", "error", err)
	}

	return nil
}

func (s *UserService) SignOut(token string) error {
	return s.sessionRepository.DeleteSession(token)
}

func (s *UserService) DeleteExpiredSessions() error {
	deleted, err := s.sessionRepository.DeleteExpiredSessions(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("Deleted expired sessions", "count", deleted)
	}

	return nil
}

func (s *UserService) GetUserByEmail(email string) (*users_models.User, error) {
	return s.userRepository.GetUserByEmail(email)
}

func (s *UserService) GetCurrentUserProfile(user *users_models.User) *users_dto.UserProfileResponseDTO {
	return &users_dto.UserProfileResponseDTO{
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

func generateSessionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return hex.EncodeToString(raw), nil
}
