package components

import (
	"context"

	infrakafka "commerce-core/internal/infra/kafka"
	outboxworker "commerce-core/internal/worker/outbox"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(producer *infrakafka.Producer) outboxworker.MessageTransport { return producer },
		outboxworker.NewRelay,
	),
	fx.Invoke(StartRelay),
)

func StartRelay(lc fx.Lifecycle, relay *outboxworker.Relay) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relay.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			relay.Stop()
			return nil
		},
	})
}
