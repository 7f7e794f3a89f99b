package readstore

import (
	"context"

	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"
	"commerce-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PointReadStore struct {
	db db.DBTX
}

func NewPointReadStore(dbtx db.DBTX) *PointReadStore {
	return &PointReadStore{db: dbtx}
}

func (r *PointReadStore) FindBalance(ctx context.Context, userID uuid.UUID) (*queries.PointBalanceView, error) {
	v := queries.PointBalanceView{UserID: userID}
	err := r.db.QueryRow(ctx, `
		SELECT balance FROM point_accounts WHERE user_id = $1`, userID).
		Scan(&v.BalanceCents)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Account rows are created lazily on first charge.
			return &v, nil
		}
		return nil, infra.WrapRepoErr("failed to find point balance", err)
	}
	return &v, nil
}

func (r *PointReadStore) FindTransactions(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.PointTransactionView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount_cents, reason, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list point transactions", err)
	}
	defer rows.Close()

	var views []*queries.PointTransactionView
	for rows.Next() {
		var v queries.PointTransactionView
		if err := rows.Scan(&v.ID, &v.AmountCents, &v.Reason, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan point transaction", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read point transactions", err)
	}
	return views, nil
}

var _ queries.PointViewRepo = (*PointReadStore)(nil)
