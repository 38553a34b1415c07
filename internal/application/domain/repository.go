package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/talenthq/hireline/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListFilter is the storage-side projection of Filter for dimensions the
// repository can push down to SQL.
type ListFilter struct {
	Statuses  []Status
	Positions []string
	Reviewers []string
	Search    string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, app *Application) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Application, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Application, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, updatedAt time.Time) error
	InsertNote(ctx context.Context, db *gorm.DB, note *Note) error
	TouchUpdatedAt(ctx context.Context, db *gorm.DB, id snowflake.ID, updatedAt time.Time) error
}
