package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type User struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string       `json:"email" gorm:"uniqueIndex;not null;size:255"`
	DisplayName  string       `json:"display_name" gorm:"not null;size:100"`
	Role         UserRole     `json:"role" gorm:"not null;size:20;default:user"`
	AuthProvider AuthProvider `json:"auth_provider" gorm:"not null;size:20;default:local"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	// Federated identity (google only)
	ProviderUserID *string `json:"-" gorm:"size:255"`

	// Present iff AuthProvider == local
	PasswordHash *string `json:"-" gorm:"size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
