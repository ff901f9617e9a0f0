package config

import "go.uber.org/fx"

// Module wires application and metrics configuration.
var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewMetricsConfigHolder,
	),
)
