package models

import (
	"time"

	"keyroute/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Mobile       string         `gorm:"uniqueIndex;size:20;not null" json:"mobile"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // USER | VENDOR | ADMIN
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool  { return u.Role == domain.RoleAdmin }
func (u *User) IsVendor() bool { return u.Role == domain.RoleVendor }
