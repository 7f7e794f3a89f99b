package components

import (
	"commerce-core/internal/pkg/clock"
	"commerce-core/internal/pkg/config"
	"commerce-core/internal/pkg/lock"
	"commerce-core/internal/usecase/commands"
	"commerce-core/internal/usecase/queries"
	"commerce-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(store lock.Store, cfg config.Config) *lock.Locker {
		return lock.NewLocker(store, cfg.Lock.RetryInterval)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderCommands,
		commands.NewCouponCommands,
		commands.NewPointCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewCouponQueries,
		queries.NewPointQueries,
		func(outbox shared.OutboxRepository, cfg config.Config) queries.OutboxQueries {
			return queries.NewOutboxQueries(outbox, cfg.Outbox.MaxRetry)
		},
	),
)
