package response

import (
	"time"

	"commerce-core/internal/usecase/commands"
	"commerce-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type IssuedCouponResponse struct {
	UserCouponID uuid.UUID `json:"user_coupon_id"`
	CouponID     uuid.UUID `json:"coupon_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

func FromIssuedCoupon(ic *commands.IssuedCoupon) *IssuedCouponResponse {
	return &IssuedCouponResponse{
		UserCouponID: ic.UserCouponID,
		CouponID:     ic.CouponID,
		IssuedAt:     ic.IssuedAt,
	}
}

type UserCouponResponse struct {
	ID       uuid.UUID  `json:"id"`
	CouponID uuid.UUID  `json:"coupon_id"`
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	IssuedAt time.Time  `json:"issued_at"`
	UsedAt   *time.Time `json:"used_at,omitempty"`
	ValidTo  *time.Time `json:"valid_to,omitempty"`
}

func FromUserCouponView(v *queries.UserCouponView) *UserCouponResponse {
	return &UserCouponResponse{
		ID:       v.ID,
		CouponID: v.CouponID,
		Name:     v.Name,
		Status:   v.Status,
		IssuedAt: v.IssuedAt,
		UsedAt:   v.UsedAt,
		ValidTo:  v.ValidTo,
	}
}

type CouponStockResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Status            string    `json:"status"`
	InitialQuantity   int32     `json:"initial_quantity"`
	RemainingQuantity int32     `json:"remaining_quantity"`
}

func FromCouponStockView(v *queries.CouponStockView) *CouponStockResponse {
	return &CouponStockResponse{
		ID:                v.ID,
		Name:              v.Name,
		Status:            v.Status,
		InitialQuantity:   v.InitialQuantity,
		RemainingQuantity: v.RemainingQuantity,
	}
}
