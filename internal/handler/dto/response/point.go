package response

import (
	"time"

	"commerce-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type PointBalanceResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
}

func FromPointBalanceView(v *queries.PointBalanceView) *PointBalanceResponse {
	return &PointBalanceResponse{
		UserID:       v.UserID,
		BalanceCents: v.BalanceCents,
	}
}

type PointTransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromPointTransactionView(v *queries.PointTransactionView) *PointTransactionResponse {
	return &PointTransactionResponse{
		ID:          v.ID,
		AmountCents: v.AmountCents,
		Reason:      v.Reason,
		CreatedAt:   v.CreatedAt,
	}
}
