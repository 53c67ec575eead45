package reminder

import "go.uber.org/fx"

// Module exposes the reminder reconciler via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
