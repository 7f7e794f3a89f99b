package repository

import (
	"context"
	"time"

	"commerce-core/internal/domain/payment"
	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

// Create inserts the payment row. The partial unique index on
// (user_id, idempotency_key) over non-FAILED rows is the final concurrency
// guard for duplicate requests; violations surface as DUPLICATE_KEY.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, order_id, user_id, idempotency_key, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID(), p.OrderID(), p.UserID(), p.IdempotencyKey(), p.AmountCents(), string(p.Status()))
	if err != nil {
		return wrapQueryErr("failed to insert payment", err)
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status payment.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`,
		paymentID, string(status))
	if err != nil {
		return wrapQueryErr("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

const paymentColumns = `id, order_id, user_id, idempotency_key, amount_cents, status, created_at, updated_at`

func (r *PaymentRepository) FindActiveByIdempotencyKey(ctx context.Context, userID, key uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE user_id = $1 AND idempotency_key = $2 AND status <> 'FAILED'`, userID, key)
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, orderID)
}

func (r *PaymentRepository) findOne(ctx context.Context, query string, args ...any) (*payment.Payment, error) {
	var (
		id, orderID, userID, key uuid.UUID
		amount                   int64
		status                   string
		createdAt, updatedAt     time.Time
	)
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&id, &orderID, &userID, &key, &amount, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, wrapQueryErr("failed to find payment", err)
	}

	return payment.Restore(id, orderID, userID, key, amount, payment.Status(status), createdAt, updatedAt), nil
}
