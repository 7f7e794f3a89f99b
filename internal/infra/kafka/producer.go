package kafka

import (
	"context"

	"commerce-core/internal/pkg/config"

	"github.com/segmentio/kafka-go"
)

// Producer implements the outbox relay's MessageTransport on kafka-go.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg config.KafkaConfig) (*Producer, func()) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	cleanup := func() {
		_ = writer.Close()
	}

	return &Producer{writer: writer}, cleanup
}

func (p *Producer) Send(ctx context.Context, topic, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}
