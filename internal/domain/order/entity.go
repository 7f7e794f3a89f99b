package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotCompletable = errors.New("order cannot transition to COMPLETED")
	ErrNotCancelable  = errors.New("order cannot transition to CANCELED")
	ErrEmptyOrder     = errors.New("order must contain at least one line")
)

type Status string

// PENDING -> COMPLETED -> CANCELED, or PENDING -> CANCELED directly.
// CANCELED is terminal.
const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

type Line struct {
	ProductID      uuid.UUID
	Quantity       int32
	UnitPriceCents int64
}

func (l Line) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

type Order struct {
	id            uuid.UUID
	userID        uuid.UUID
	couponID      *uuid.UUID
	status        Status
	totalCents    int64
	discountCents int64
	finalCents    int64
	lines         []Line
	createdAt     time.Time
	updatedAt     time.Time
}

func NewOrder(id, userID uuid.UUID, couponID *uuid.UUID, lines []Line, discountCents int64) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var total int64
	for _, l := range lines {
		total += l.SubtotalCents()
	}
	final := total - discountCents
	if final < 0 {
		final = 0
	}

	return &Order{
		id:            id,
		userID:        userID,
		couponID:      couponID,
		status:        StatusPending,
		totalCents:    total,
		discountCents: discountCents,
		finalCents:    final,
		lines:         lines,
	}, nil
}

func Restore(id, userID uuid.UUID, couponID *uuid.UUID, status Status, totalCents, discountCents, finalCents int64, lines []Line, createdAt, updatedAt time.Time) *Order {
	return &Order{
		id:            id,
		userID:        userID,
		couponID:      couponID,
		status:        status,
		totalCents:    totalCents,
		discountCents: discountCents,
		finalCents:    finalCents,
		lines:         lines,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (o *Order) Complete() error {
	if o.status != StatusPending {
		return ErrNotCompletable
	}
	o.status = StatusCompleted
	return nil
}

func (o *Order) Cancel() error {
	if o.status == StatusCanceled {
		return ErrNotCancelable
	}
	o.status = StatusCanceled
	return nil
}

func (o *Order) IsCompleted() bool { return o.status == StatusCompleted }

func (o *Order) ID() uuid.UUID        { return o.id }
func (o *Order) UserID() uuid.UUID    { return o.userID }
func (o *Order) CouponID() *uuid.UUID { return o.couponID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) TotalCents() int64    { return o.totalCents }
func (o *Order) DiscountCents() int64 { return o.discountCents }
func (o *Order) FinalCents() int64    { return o.finalCents }
func (o *Order) Lines() []Line        { return o.lines }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }
