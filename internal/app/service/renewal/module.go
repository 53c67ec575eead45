package renewal

import "go.uber.org/fx"

// Module exposes the renewal advancer via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
