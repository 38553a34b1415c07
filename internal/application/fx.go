package application

import (
	"github.com/talenthq/hireline/internal/application/repository"
	"github.com/talenthq/hireline/internal/application/service"
	"go.uber.org/fx"
)

var Module = fx.Module("application.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
