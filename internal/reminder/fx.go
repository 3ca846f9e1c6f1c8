package reminder

import (
	"github.com/smallbiznis/subsense/internal/reminder/repository"
	"github.com/smallbiznis/subsense/internal/reminder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reminder",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
