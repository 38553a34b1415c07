package user

import (
	"github.com/talenthq/hireline/internal/user/repository"
	"github.com/talenthq/hireline/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
