package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Application is one candidate submission and its evolving review state.
type Application struct {
	ID                 snowflake.ID                `gorm:"primaryKey" json:"id"`
	FirstName          string                      `gorm:"not null" json:"first_name"`
	LastName           string                      `gorm:"not null" json:"last_name"`
	Email              string                      `gorm:"not null;index" json:"email"`
	Phone              string                      `json:"phone,omitempty"`
	Position           string                      `gorm:"not null;index" json:"position"`
	ApplicationDate    string                      `gorm:"not null" json:"application_date"`
	Status             Status                      `gorm:"not null;index;default:submitted" json:"status"`
	Experience         string                      `json:"experience,omitempty"`
	Education          string                      `json:"education,omitempty"`
	Skills             datatypes.JSONSlice[string] `gorm:"not null;default:'[]'" json:"skills"`
	AssignedReviewer   string                      `gorm:"index" json:"assigned_reviewer,omitempty"`
	ResumeURL          string                      `json:"resume_url,omitempty"`
	PortfolioURL       string                      `json:"portfolio_url,omitempty"`
	CoverLetter        string                      `json:"cover_letter,omitempty"`
	ExpectedSalary     string                      `json:"expected_salary,omitempty"`
	AvailableStartDate string                      `json:"available_start_date,omitempty"`
	Notes              []Note                      `gorm:"foreignKey:ApplicationID" json:"notes"`
	CreatedAt          time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

// ApplicantName returns the display name the dashboard shows in lists.
func (a *Application) ApplicantName() string {
	return a.FirstName + " " + a.LastName
}

// Note is an immutable, timestamped annotation on an application. The
// application id is a lookup reference only: the note's lifetime follows the
// application, not the other way around.
type Note struct {
	ID            string       `gorm:"primaryKey" json:"id"`
	ApplicationID snowflake.ID `gorm:"not null;index" json:"application_id"`
	AuthorID      string       `gorm:"not null" json:"author_id"`
	AuthorName    string       `gorm:"not null" json:"author_name"`
	Content       string       `gorm:"not null" json:"content"`
	IsInternal    bool         `gorm:"not null;default:true" json:"is_internal"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Note) TableName() string { return "notes" }

const (
	// SystemAuthorID marks notes appended by the service itself when a
	// status change carries a justification.
	SystemAuthorID   = "system"
	SystemAuthorName = "System"
)
