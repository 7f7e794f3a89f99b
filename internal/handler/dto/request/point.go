package request

type ChargePointsRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}
