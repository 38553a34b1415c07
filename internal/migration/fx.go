package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/talenthq/hireline/internal/config"
	"github.com/talenthq/hireline/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		if cfg.SeedDefaults {
			return seed.EnsureDefaults(conn, node)
		}
		return nil
	}),
)
