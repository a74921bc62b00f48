package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// User represents the canonical identity entity. The role is fixed at
// registration; status moves through the admin approval workflow.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string           `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string           `gorm:"column:password_hash;not null" json:"-"`
	Name         string           `gorm:"type:text;not null" json:"name"`
	Phone        *string          `gorm:"type:text" json:"phone"`
	Role         enums.UserRole   `gorm:"type:user_role;not null" json:"role"`
	Status       enums.UserStatus `gorm:"type:user_status;not null;default:'pending'" json:"status"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at" json:"lastLoginAt"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
