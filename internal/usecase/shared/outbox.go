package shared

import (
	"time"

	"github.com/google/uuid"
)

// OutboxRecord is appended in the same transaction as the state change it
// announces and relayed asynchronously. Consumers must dedupe by
// (AggregateType, AggregateID, EventType) because a crash between delivery
// and mark-processed re-delivers.
type OutboxRecord struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	Processed     bool
	RetryCount    int
	ErrorMessage  *string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

const (
	AggregateOrder = "order"

	EventOrderCompleted = "OrderCompleted"
)

func NewOutboxRecord(aggregateType string, aggregateID uuid.UUID, eventType string, payload []byte) *OutboxRecord {
	return &OutboxRecord{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
	}
}

// DeadLetter reports whether the record exhausted its retry budget while
// still unprocessed.
func (r *OutboxRecord) DeadLetter(maxRetry int) bool {
	return !r.Processed && r.RetryCount >= maxRetry
}
