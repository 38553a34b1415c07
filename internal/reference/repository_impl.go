package reference

import (
	"context"

	"github.com/talenthq/hireline/internal/reference/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPositions(ctx context.Context, db *gorm.DB) ([]domain.Position, error) {
	var positions []domain.Position
	err := db.WithContext(ctx).
		Model(&domain.Position{}).
		Order("name asc").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *repo) ExistsByName(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Position{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
