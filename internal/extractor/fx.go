package extractor

import "go.uber.org/fx"

var Module = fx.Module("extractor",
	fx.Provide(New),
)
