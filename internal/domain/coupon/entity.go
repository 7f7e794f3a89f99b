package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")
	ErrCouponExhausted   = errors.New("coupon has no remaining quantity")
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Coupon is the authoritative record of one scarce coupon campaign. The
// available quantity column is the source of truth; the key-value fast path
// only pre-filters contenders.
type Coupon struct {
	id                uuid.UUID
	name              string
	discountCents     int64
	initialQuantity   int32
	availableQuantity int32
	status            Status
	validFrom         *time.Time
	validTo           *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

func NewCoupon(
	id uuid.UUID,
	name string,
	discountCents int64,
	initialQuantity, availableQuantity int32,
	status Status,
	validFrom, validTo *time.Time,
) *Coupon {
	return &Coupon{
		id:                id,
		name:              name,
		discountCents:     discountCents,
		initialQuantity:   initialQuantity,
		availableQuantity: availableQuantity,
		status:            status,
		validFrom:         validFrom,
		validTo:           validTo,
	}
}

func (c *Coupon) IsValidAt(t time.Time) bool {
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return false
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return false
	}
	return true
}

// ValidateIssuable is the Phase-2 re-validation under the row lock: active
// status, temporal validity, and a final authoritative quantity check.
func (c *Coupon) ValidateIssuable(t time.Time) error {
	if c.status != StatusActive {
		return ErrCouponInactive
	}
	if !c.IsValidAt(t) {
		if c.validFrom != nil && t.Before(*c.validFrom) {
			return ErrCouponNotYetValid
		}
		return ErrCouponExpired
	}
	if c.availableQuantity <= 0 {
		return ErrCouponExhausted
	}
	return nil
}

func (c *Coupon) Decrease() error {
	if c.availableQuantity <= 0 {
		return ErrCouponExhausted
	}
	c.availableQuantity--
	return nil
}

func (c *Coupon) Increase() {
	if c.availableQuantity < c.initialQuantity {
		c.availableQuantity++
	}
}

func (c *Coupon) ApplyDiscount(basePriceCents int64) int64 {
	discounted := basePriceCents - c.discountCents
	if discounted < 0 {
		return 0
	}
	return discounted
}

func (c *Coupon) ID() uuid.UUID            { return c.id }
func (c *Coupon) Name() string             { return c.name }
func (c *Coupon) DiscountCents() int64     { return c.discountCents }
func (c *Coupon) InitialQuantity() int32   { return c.initialQuantity }
func (c *Coupon) AvailableQuantity() int32 { return c.availableQuantity }
func (c *Coupon) Status() Status           { return c.status }
func (c *Coupon) ValidFrom() *time.Time    { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time      { return c.validTo }
func (c *Coupon) CreatedAt() time.Time     { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time     { return c.updatedAt }
