package shared

import (
	"context"
	"time"

	"commerce-core/internal/domain/coupon"
	"commerce-core/internal/domain/order"
	"commerce-core/internal/domain/payment"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures and deadlocks
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Products() ProductRepository
	Points() PointRepository
	Coupons() CouponRepository
	UserCoupons() UserCouponRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Outbox() OutboxRepository
}

type ProductSnapshot struct {
	ID            uuid.UUID
	Name          string
	PriceCents    int64
	StockQuantity int32
	SalesCount    int64
}

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductSnapshot, error)
	// DecreaseStock performs the read-validate-decrement under the product
	// row lock; insufficient stock surfaces as a conflict-kind error.
	DecreaseStock(ctx context.Context, productID uuid.UUID, qty int32) error
	IncreaseStock(ctx context.Context, productID uuid.UUID, qty int32) error
	IncreaseSales(ctx context.Context, productID uuid.UUID, qty int32) error
	DecreaseSales(ctx context.Context, productID uuid.UUID, qty int32) error
	RecordMovement(ctx context.Context, productID, orderID uuid.UUID, qty int32, movementType string) error
}

type PointRepository interface {
	// Debit fails with a conflict-kind error when the balance is short.
	Debit(ctx context.Context, userID uuid.UUID, amountCents int64, reason string) (int64, error)
	Credit(ctx context.Context, userID uuid.UUID, amountCents int64, reason string) (int64, error)
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
}

type CouponRepository interface {
	// FindByIDForUpdate takes the exclusive row lock on the authoritative
	// coupon record for Phase-2 validation and decrement.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	UpdateQuantity(ctx context.Context, c *coupon.Coupon) error
}

type UserCouponRepository interface {
	Insert(ctx context.Context, uc *coupon.UserCoupon) error
	FindByUserAndCoupon(ctx context.Context, userID, couponID uuid.UUID) (*coupon.UserCoupon, error)
	// MarkUsed / MarkAvailable enforce the AVAILABLE <-> USED transition in
	// the UPDATE predicate; zero rows affected is a conflict-kind error.
	MarkUsed(ctx context.Context, userID, couponID uuid.UUID, usedAt time.Time) error
	MarkAvailable(ctx context.Context, userID, couponID uuid.UUID) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status order.Status) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status payment.Status) error
	// FindActiveByIdempotencyKey ignores FAILED rows; those have released
	// their key.
	FindActiveByIdempotencyKey(ctx context.Context, userID, key uuid.UUID) (*payment.Payment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, rec *OutboxRecord) error
	// FetchUnprocessed returns records with retryCount below maxRetry,
	// oldest first.
	FetchUnprocessed(ctx context.Context, limit, maxRetry int) ([]OutboxRecord, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	ListDeadLetters(ctx context.Context, maxRetry, limit int) ([]OutboxRecord, error)
	PurgeProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
