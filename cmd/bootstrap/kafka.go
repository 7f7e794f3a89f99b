package bootstrap

import (
	"context"

	infrakafka "commerce-core/internal/infra/kafka"
	"commerce-core/internal/pkg/config"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		NewKafkaProducer,
	),
)

func NewKafkaProducer(lc fx.Lifecycle, cfg config.Config) *infrakafka.Producer {
	producer, cleanup := infrakafka.NewProducer(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return producer
}
