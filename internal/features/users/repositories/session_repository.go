package users_repositories

import (
	users_models "inovadata/internal/features/users/models"
	"inovadata/internal/storage"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository struct{}

func (r *SessionRepository) CreateSession(session *users_models.Session) error {
	return storage.GetDb().Create(session).Error
}

func (r *SessionRepository) GetSession(token string) (*users_models.Session, error) {
	var session users_models.Session

	if err := storage.GetDb().Where("id = ?", token).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func (r *SessionRepository) DeleteSession(token string) error {
	return storage.GetDb().
		Where("id = ?", token).
		Delete(&users_models.Session{}).Error
}

func (r *SessionRepository) DeleteSessionsByUser(userID uuid.UUID) error {
	return storage.GetDb().
		Where("user_id = ?", userID).
		Delete(&users_models.Session{}).Error
}

func (r *SessionRepository) DeleteOtherSessions(userID uuid.UUID, keepToken string) error {
	return storage.GetDb().
		Where("user_id = ? AND id <> ?", userID, keepToken).
		Delete(&users_models.Session{}).Error
}

func (r *SessionRepository) DeleteExpiredSessions(now time.Time) (int64, error) {
	result := storage.GetDb().
		Where("expires_at <= ?", now).
		Delete(&users_models.Session{})

	return result.RowsAffected, result.Error
}
