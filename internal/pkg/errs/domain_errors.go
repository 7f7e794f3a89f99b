package errs

import "errors"

// Domain-specific sentinel errors shared across the command usecase layers
var (
	// Lock errors
	ErrLockNotAcquired = errors.New("lock not acquired")

	// Idempotency errors
	ErrAlreadyProcessed       = errors.New("request already processed")
	ErrDuplicateInFlight      = errors.New("duplicate request in flight")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")

	// Coupon errors
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponAlreadyIssued = errors.New("coupon already issued")
	ErrCouponOutOfStock    = errors.New("coupon out of stock")
	ErrCouponNotAvailable  = errors.New("coupon not available")
	ErrCouponInvalid       = errors.New("invalid coupon")

	// Stock / point errors
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInsufficientPoints = errors.New("insufficient point balance")

	// Order errors
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotCancelable = errors.New("order not cancelable")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
