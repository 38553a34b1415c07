package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/talenthq/hireline/internal/clock"
	"github.com/talenthq/hireline/internal/config"
	"github.com/talenthq/hireline/internal/migration"
	"github.com/talenthq/hireline/internal/observability"
	"github.com/talenthq/hireline/internal/server"
	"github.com/talenthq/hireline/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP surface and functional domains
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
