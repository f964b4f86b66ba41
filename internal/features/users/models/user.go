package users_models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"  gorm:"uniqueIndex"`
	Email          string    `json:"email"     gorm:"uniqueIndex"`
	FullName       *string   `json:"fullName"  gorm:"column:full_name"`
	AvatarURL      *string   `json:"avatarUrl" gorm:"column:avatar_url"`
	HashedPassword *string   `json:"-"         gorm:"column:hashed_password"`
	IsActive       bool      `json:"isActive"  gorm:"column:is_active"`
	IsAdmin        bool      `json:"isAdmin"   gorm:"column:is_admin"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}
