package store

import "go.uber.org/fx"

// Module exposes the GORM-backed store as the Store implementation.
var Module = fx.Options(
	fx.Provide(
		NewGormStore,
		func(s *GormStore) Store { return s },
	),
)
