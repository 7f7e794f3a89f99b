package repository

import (
	"context"
	"time"

	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// errorMessageLimit keeps stored delivery errors bounded; the full error is
// still logged by the relay.
const errorMessageLimit = 500

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Append(ctx context.Context, rec *shared.OutboxRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO outbox_records (id, aggregate_type, aggregate_id, event_type, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.AggregateType, rec.AggregateID, rec.EventType, rec.Payload)
	if err != nil {
		return wrapQueryErr("failed to append outbox record", err)
	}
	return nil
}

const outboxColumns = `id, aggregate_type, aggregate_id, event_type, payload, processed, retry_count, error_message, created_at, processed_at`

func (r *OutboxRepository) FetchUnprocessed(ctx context.Context, limit, maxRetry int) ([]shared.OutboxRecord, error) {
	return r.fetch(ctx, `
		SELECT `+outboxColumns+`
		FROM outbox_records
		WHERE processed = false AND retry_count < $2
		ORDER BY created_at
		LIMIT $1`, limit, maxRetry)
}

func (r *OutboxRepository) ListDeadLetters(ctx context.Context, maxRetry, limit int) ([]shared.OutboxRecord, error) {
	return r.fetch(ctx, `
		SELECT `+outboxColumns+`
		FROM outbox_records
		WHERE processed = false AND retry_count >= $1
		ORDER BY created_at
		LIMIT $2`, maxRetry, limit)
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE outbox_records
		SET processed = true, processed_at = $2
		WHERE id = $1`, id, processedAt)
	if err != nil {
		return wrapQueryErr("failed to mark outbox record processed", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("outbox record not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	if len(errorMessage) > errorMessageLimit {
		errorMessage = errorMessage[:errorMessageLimit]
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE outbox_records
		SET retry_count = retry_count + 1, error_message = $2
		WHERE id = $1`, id, errorMessage)
	if err != nil {
		return wrapQueryErr("failed to mark outbox record failed", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("outbox record not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OutboxRepository) PurgeProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM outbox_records
		WHERE processed = true AND processed_at < $1`, cutoff)
	if err != nil {
		return 0, wrapQueryErr("failed to purge processed outbox records", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OutboxRepository) fetch(ctx context.Context, query string, args ...any) ([]shared.OutboxRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to fetch outbox records", err)
	}
	defer rows.Close()

	var out []shared.OutboxRecord
	for rows.Next() {
		var rec shared.OutboxRecord
		if err := rows.Scan(
			&rec.ID, &rec.AggregateType, &rec.AggregateID, &rec.EventType, &rec.Payload,
			&rec.Processed, &rec.RetryCount, &rec.ErrorMessage, &rec.CreatedAt, &rec.ProcessedAt,
		); err != nil {
			return nil, wrapQueryErr("failed to scan outbox record", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read outbox records", err)
	}
	return out, nil
}
