package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserCouponView struct {
	ID       uuid.UUID  `json:"id"`
	CouponID uuid.UUID  `json:"coupon_id"`
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	IssuedAt time.Time  `json:"issued_at"`
	UsedAt   *time.Time `json:"used_at,omitempty"`
	ValidTo  *time.Time `json:"valid_to,omitempty"`
}

type CouponStockView struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Status            string    `json:"status"`
	InitialQuantity   int32     `json:"initial_quantity"`
	RemainingQuantity int32     `json:"remaining_quantity"`
}

type CouponQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserCouponView, error)
	GetStock(ctx context.Context, couponID uuid.UUID) (*CouponStockView, error)
}

type CouponViewRepo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*UserCouponView, error)
	FindStockByID(ctx context.Context, couponID uuid.UUID) (*CouponStockView, error)
}

type couponQueriesImpl struct {
	repo CouponViewRepo
}

func NewCouponQueries(repo CouponViewRepo) CouponQueries {
	return &couponQueriesImpl{repo: repo}
}

func (q *couponQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserCouponView, error) {
	return q.repo.FindByUserID(ctx, userID)
}

func (q *couponQueriesImpl) GetStock(ctx context.Context, couponID uuid.UUID) (*CouponStockView, error) {
	return q.repo.FindStockByID(ctx, couponID)
}
