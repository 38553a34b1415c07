package audit

import (
	"github.com/talenthq/hireline/internal/audit/repository"
	"github.com/talenthq/hireline/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
