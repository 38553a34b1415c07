package domain

import "time"

// Position is one entry of the known set the intake form validates against.
type Position struct {
	Slug      string    `gorm:"primaryKey" json:"slug"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
}

func (Position) TableName() string { return "positions" }
