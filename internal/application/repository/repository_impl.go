package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/talenthq/hireline/internal/application/domain"
	"github.com/talenthq/hireline/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, app *domain.Application) error {
	return db.WithContext(ctx).Create(app).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Application, error) {
	var app domain.Application
	err := db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		}).
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// List returns applications in insertion order. Set-valued dimensions are
// pushed down to SQL; free-text search stays in the domain filter because it
// spans synthesized fields no dialect-portable predicate covers.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Application, error) {
	var apps []*domain.Application
	stmt := db.WithContext(ctx).
		Model(&domain.Application{}).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		})

	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Positions) > 0 {
		stmt = stmt.Where("position IN ?", filter.Positions)
	}
	if len(filter.Reviewers) > 0 {
		stmt = stmt.Where("assigned_reviewer IN ?", filter.Reviewers)
	}

	if cursor, err := decodeCursor(page.PageToken); err != nil {
		return nil, domain.ErrInvalidID
	} else if cursor != nil {
		stmt = stmt.Where("created_at > ? OR (created_at = ? AND id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	if page.PageSize > 0 {
		// One extra row signals another page.
		stmt = stmt.Limit(page.PageSize + 1)
	}

	err := stmt.
		Order("created_at asc, id asc").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, updatedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		}).Error
}

func (r *repo) InsertNote(ctx context.Context, db *gorm.DB, note *domain.Note) error {
	return db.WithContext(ctx).Create(note).Error
}

func (r *repo) TouchUpdatedAt(ctx context.Context, db *gorm.DB, id snowflake.ID, updatedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("id = ?", id).
		Update("updated_at", updatedAt).Error
}

type listCursor struct {
	CreatedAt time.Time
	ID        int64
}

func decodeCursor(token string) (*listCursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := pagination.DecodeCursor(token)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := snowflake.ParseString(raw.ID)
	if err != nil {
		return nil, err
	}
	return &listCursor{CreatedAt: createdAt, ID: id.Int64()}, nil
}
