package response

import (
	"time"

	"commerce-core/internal/usecase/commands"
	"commerce-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type PlaceOrderResponse struct {
	OrderID       uuid.UUID `json:"order_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	Status        string    `json:"status"`
	TotalCents    int64     `json:"total_cents"`
	DiscountCents int64     `json:"discount_cents"`
	FinalCents    int64     `json:"final_cents"`
}

func FromOrderResult(r *commands.OrderResult) *PlaceOrderResponse {
	return &PlaceOrderResponse{
		OrderID:       r.OrderID,
		PaymentID:     r.PaymentID,
		Status:        string(r.Status),
		TotalCents:    r.TotalCents,
		DiscountCents: r.DiscountCents,
		FinalCents:    r.FinalCents,
	}
}

type OrderLineResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	CouponID      *uuid.UUID          `json:"coupon_id,omitempty"`
	Status        string              `json:"status"`
	TotalCents    int64               `json:"total_cents"`
	DiscountCents int64               `json:"discount_cents"`
	FinalCents    int64               `json:"final_cents"`
	Lines         []OrderLineResponse `json:"lines"`
	PaymentStatus *string             `json:"payment_status,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	lines := make([]OrderLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = OrderLineResponse{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		}
	}
	return &OrderResponse{
		ID:            v.ID,
		UserID:        v.UserID,
		CouponID:      v.CouponID,
		Status:        v.Status,
		TotalCents:    v.TotalCents,
		DiscountCents: v.DiscountCents,
		FinalCents:    v.FinalCents,
		Lines:         lines,
		PaymentStatus: v.PaymentStatus,
		CreatedAt:     v.CreatedAt,
	}
}

type OrderListResponse struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	FinalCents int64     `json:"final_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromOrderListItem(item *queries.OrderListItem) *OrderListResponse {
	return &OrderListResponse{
		ID:         item.ID,
		Status:     item.Status,
		FinalCents: item.FinalCents,
		CreatedAt:  item.CreatedAt,
	}
}
