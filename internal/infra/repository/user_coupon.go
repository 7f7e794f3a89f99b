package repository

import (
	"context"
	"time"

	"commerce-core/internal/domain/coupon"
	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"

	"github.com/google/uuid"
)

type UserCouponRepository struct {
	db db.DBTX
}

func NewUserCouponRepository(dbtx db.DBTX) *UserCouponRepository {
	return &UserCouponRepository{db: dbtx}
}

func (r *UserCouponRepository) Insert(ctx context.Context, uc *coupon.UserCoupon) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_coupons (id, user_id, coupon_id, status, issued_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uc.ID(), uc.UserID(), uc.CouponID(), string(uc.Status()), uc.IssuedAt())
	if err != nil {
		return wrapQueryErr("failed to insert user coupon", err)
	}
	return nil
}

func (r *UserCouponRepository) FindByUserAndCoupon(ctx context.Context, userID, couponID uuid.UUID) (*coupon.UserCoupon, error) {
	var (
		id       uuid.UUID
		status   string
		issuedAt time.Time
		usedAt   *time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, status, issued_at, used_at
		FROM user_coupons
		WHERE user_id = $1 AND coupon_id = $2`, userID, couponID).
		Scan(&id, &status, &issuedAt, &usedAt)
	if err != nil {
		return nil, wrapQueryErr("failed to find user coupon", err)
	}

	return coupon.Restore(id, userID, couponID, coupon.UserCouponStatus(status), issuedAt, usedAt), nil
}

// MarkUsed transitions AVAILABLE -> USED; the predicate makes the transition
// atomic, so a concurrent use of the same coupon loses with a conflict.
func (r *UserCouponRepository) MarkUsed(ctx context.Context, userID, couponID uuid.UUID, usedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_coupons
		SET status = 'USED', used_at = $3
		WHERE user_id = $1 AND coupon_id = $2 AND status = 'AVAILABLE'`,
		userID, couponID, usedAt)
	if err != nil {
		return wrapQueryErr("failed to mark user coupon used", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user coupon not available", nil, infra.KindConflict)
	}
	return nil
}

func (r *UserCouponRepository) MarkAvailable(ctx context.Context, userID, couponID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_coupons
		SET status = 'AVAILABLE', used_at = NULL
		WHERE user_id = $1 AND coupon_id = $2 AND status = 'USED'`,
		userID, couponID)
	if err != nil {
		return wrapQueryErr("failed to mark user coupon available", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user coupon not used", nil, infra.KindConflict)
	}
	return nil
}
