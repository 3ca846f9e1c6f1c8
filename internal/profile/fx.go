package profile

import (
	"github.com/smallbiznis/subsense/internal/profile/repository"
	"github.com/smallbiznis/subsense/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
