package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role gates capability: management can bulk-act, view analytics and manage
// the team; associates cannot.
type Role string

const (
	RoleAssociate  Role = "associate"
	RoleManagement Role = "management"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAssociate, RoleManagement:
		return true
	default:
		return false
	}
}

// User is a reviewer or manager account.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Email     string       `gorm:"not null;uniqueIndex" json:"email"`
	Role      Role         `gorm:"not null;default:associate" json:"role"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }
