package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	referencedomain "github.com/talenthq/hireline/internal/reference/domain"
	userdomain "github.com/talenthq/hireline/internal/user/domain"
	"gorm.io/gorm"
)

const (
	defaultManagerEmail = "hiring.manager@talenthq.io"
	defaultManagerName  = "Hiring Manager"
)

var defaultPositions = []string{
	"Frontend Engineer",
	"Backend Engineer",
}

// EnsureDefaults seeds the open positions and a management account so a
// fresh install is usable without manual provisioning.
func EnsureDefaults(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePositionsTx(ctx, tx); err != nil {
			return err
		}
		return ensureManagerTx(ctx, tx, node)
	})
}

func ensurePositionsTx(ctx context.Context, tx *gorm.DB) error {
	for _, name := range defaultPositions {
		var existing referencedomain.Position
		err := tx.WithContext(ctx).
			Where("name = ?", name).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		position := referencedomain.Position{
			Slug:      slug.Make(name),
			Name:      name,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(&position).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureManagerTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var existing userdomain.User
	err := tx.WithContext(ctx).
		Where("role = ?", userdomain.RoleManagement).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	manager := userdomain.User{
		ID:        node.Generate(),
		Name:      defaultManagerName,
		Email:     defaultManagerEmail,
		Role:      userdomain.RoleManagement,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&manager).Error
}
