package users_models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque server-side token. The token itself is the primary
// key; it never leaves the server except inside the httponly cookie.
type Session struct {
	Token     string    `json:"-"         gorm:"column:id;primaryKey"`
	UserID    uuid.UUID `json:"userId"    gorm:"column:user_id"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"column:expires_at"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
