package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PointBalanceView struct {
	UserID       uuid.UUID `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
}

type PointTransactionView struct {
	ID          uuid.UUID `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

type PointQueries interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*PointBalanceView, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*PointTransactionView, error)
}

type PointViewRepo interface {
	FindBalance(ctx context.Context, userID uuid.UUID) (*PointBalanceView, error)
	FindTransactions(ctx context.Context, userID uuid.UUID, limit int32) ([]*PointTransactionView, error)
}

type pointQueriesImpl struct {
	repo PointViewRepo
}

func NewPointQueries(repo PointViewRepo) PointQueries {
	return &pointQueriesImpl{repo: repo}
}

func (q *pointQueriesImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*PointBalanceView, error) {
	return q.repo.FindBalance(ctx, userID)
}

func (q *pointQueriesImpl) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*PointTransactionView, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.FindTransactions(ctx, userID, int32(limit))
}
