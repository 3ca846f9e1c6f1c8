package usage

import (
	"github.com/smallbiznis/subsense/internal/usage/github"
	"go.uber.org/fx"
)

var Module = fx.Module("usage",
	fx.Provide(
		github.NewClient,
		New,
	),
)
