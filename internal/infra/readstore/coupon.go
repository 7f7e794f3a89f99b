package readstore

import (
	"context"

	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"
	"commerce-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

func (r *CouponReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.UserCouponView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT uc.id, uc.coupon_id, c.name, uc.status, uc.issued_at, uc.used_at, c.valid_to
		FROM user_coupons uc
		JOIN coupons c ON c.id = uc.coupon_id
		WHERE uc.user_id = $1
		ORDER BY uc.issued_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user coupons", err)
	}
	defer rows.Close()

	var views []*queries.UserCouponView
	for rows.Next() {
		var v queries.UserCouponView
		if err := rows.Scan(&v.ID, &v.CouponID, &v.Name, &v.Status, &v.IssuedAt, &v.UsedAt, &v.ValidTo); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user coupon view", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read user coupon views", err)
	}
	return views, nil
}

func (r *CouponReadStore) FindStockByID(ctx context.Context, couponID uuid.UUID) (*queries.CouponStockView, error) {
	var v queries.CouponStockView
	err := r.db.QueryRow(ctx, `
		SELECT id, name, status, initial_quantity, available_quantity
		FROM coupons WHERE id = $1`, couponID).
		Scan(&v.ID, &v.Name, &v.Status, &v.InitialQuantity, &v.RemainingQuantity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon stock view", err)
	}
	return &v, nil
}

var _ queries.CouponViewRepo = (*CouponReadStore)(nil)
