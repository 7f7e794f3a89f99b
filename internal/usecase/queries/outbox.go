package queries

import (
	"context"
	"time"

	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// DeadLetterView exposes outbox records that exhausted their retry budget,
// for operator inspection and manual replay.
type DeadLetterView struct {
	ID            uuid.UUID `json:"id"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	EventType     string    `json:"event_type"`
	Payload       []byte    `json:"payload"`
	RetryCount    int       `json:"retry_count"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type OutboxQueries interface {
	ListDeadLetters(ctx context.Context, limit int) ([]*DeadLetterView, error)
}

type outboxQueriesImpl struct {
	outbox   shared.OutboxRepository
	maxRetry int
}

func NewOutboxQueries(outbox shared.OutboxRepository, maxRetry int) OutboxQueries {
	return &outboxQueriesImpl{outbox: outbox, maxRetry: maxRetry}
}

func (q *outboxQueriesImpl) ListDeadLetters(ctx context.Context, limit int) ([]*DeadLetterView, error) {
	if limit <= 0 {
		limit = 100
	}
	records, err := q.outbox.ListDeadLetters(ctx, q.maxRetry, limit)
	if err != nil {
		return nil, err
	}

	views := make([]*DeadLetterView, 0, len(records))
	for _, rec := range records {
		var v DeadLetterView
		if err := copier.Copy(&v, rec); err != nil {
			return nil, errs.Wrap(err, "failed to map dead letter record")
		}
		views = append(views, &v)
	}
	return views, nil
}
