package repository

import (
	"context"
	"errors"

	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PointRepository struct {
	db db.DBTX
}

func NewPointRepository(dbtx db.DBTX) *PointRepository {
	return &PointRepository{db: dbtx}
}

// Debit decrements the balance under the account row lock and records the
// movement in the transaction ledger. A short balance is a conflict.
func (r *PointRepository) Debit(ctx context.Context, userID uuid.UUID, amountCents int64, reason string) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		UPDATE point_accounts
		SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance`, userID, amountCents).Scan(&balance)
	// Only a rejected predicate (short balance or missing account) is a
	// conflict; anything else is an infrastructure failure.
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, infra.WrapRepoErr("insufficient point balance or account missing", err, infra.KindConflict)
	}
	if err != nil {
		return 0, wrapQueryErr("failed to debit points", err)
	}

	if err := r.appendTransaction(ctx, userID, -amountCents, reason); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *PointRepository) Credit(ctx context.Context, userID uuid.UUID, amountCents int64, reason string) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO point_accounts (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET balance = point_accounts.balance + $2, updated_at = now()
		RETURNING balance`, userID, amountCents).Scan(&balance)
	if err != nil {
		return 0, wrapQueryErr("failed to credit points", err)
	}

	if err := r.appendTransaction(ctx, userID, amountCents, reason); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *PointRepository) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		SELECT balance FROM point_accounts WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		return 0, wrapQueryErr("failed to read point balance", err)
	}
	return balance, nil
}

func (r *PointRepository) appendTransaction(ctx context.Context, userID uuid.UUID, amountCents int64, reason string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO point_transactions (id, user_id, amount_cents, reason)
		VALUES ($1, $2, $3, $4)`,
		uuid.New(), userID, amountCents, reason)
	if err != nil {
		return wrapQueryErr("failed to append point transaction", err)
	}
	return nil
}
