package repository

import (
	"context"
	"time"

	"commerce-core/internal/domain/coupon"
	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"

	"github.com/google/uuid"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) *CouponRepository {
	return &CouponRepository{db: dbtx}
}

const couponColumns = `id, name, discount_cents, initial_quantity, available_quantity, status, valid_from, valid_to`

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate takes the authoritative row lock. Callers must run
// inside a transaction or the lock is released immediately.
func (r *CouponRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	return r.findByID(ctx, id, true)
}

func (r *CouponRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*coupon.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		cid                uuid.UUID
		name               string
		discountCents      int64
		initialQty, availQty int32
		status             string
		validFrom, validTo *time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cid, &name, &discountCents, &initialQty, &availQty, &status, &validFrom, &validTo)
	if err != nil {
		return nil, wrapQueryErr("failed to find coupon", err)
	}

	return coupon.NewCoupon(cid, name, discountCents, initialQty, availQty, coupon.Status(status), validFrom, validTo), nil
}

func (r *CouponRepository) UpdateQuantity(ctx context.Context, c *coupon.Coupon) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET available_quantity = $2, updated_at = now()
		WHERE id = $1`, c.ID(), c.AvailableQuantity())
	if err != nil {
		return wrapQueryErr("failed to update coupon quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}
