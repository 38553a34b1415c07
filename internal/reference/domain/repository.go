package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListPositions(ctx context.Context, db *gorm.DB) ([]Position, error)
	ExistsByName(ctx context.Context, db *gorm.DB, name string) (bool, error)
}
