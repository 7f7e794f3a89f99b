package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotCompletable = errors.New("payment cannot transition to COMPLETED")
	ErrNotFailable    = errors.New("payment cannot transition to FAILED")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Payment is the idempotency anchor: (userID, idempotencyKey) is unique among
// non-FAILED rows, so a failed attempt frees its key for legitimate retry
// while a PENDING or COMPLETED row blocks duplicates.
type Payment struct {
	id             uuid.UUID
	orderID        uuid.UUID
	userID         uuid.UUID
	idempotencyKey uuid.UUID
	amountCents    int64
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func NewPayment(id, orderID, userID, idempotencyKey uuid.UUID, amountCents int64) *Payment {
	return &Payment{
		id:             id,
		orderID:        orderID,
		userID:         userID,
		idempotencyKey: idempotencyKey,
		amountCents:    amountCents,
		status:         StatusPending,
	}
}

func Restore(id, orderID, userID, idempotencyKey uuid.UUID, amountCents int64, status Status, createdAt, updatedAt time.Time) *Payment {
	return &Payment{
		id:             id,
		orderID:        orderID,
		userID:         userID,
		idempotencyKey: idempotencyKey,
		amountCents:    amountCents,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (p *Payment) Complete() error {
	if p.status != StatusPending {
		return ErrNotCompletable
	}
	p.status = StatusCompleted
	return nil
}

func (p *Payment) Fail() error {
	if p.status != StatusPending {
		return ErrNotFailable
	}
	p.status = StatusFailed
	return nil
}

func (p *Payment) ID() uuid.UUID             { return p.id }
func (p *Payment) OrderID() uuid.UUID        { return p.orderID }
func (p *Payment) UserID() uuid.UUID         { return p.userID }
func (p *Payment) IdempotencyKey() uuid.UUID { return p.idempotencyKey }
func (p *Payment) AmountCents() int64        { return p.amountCents }
func (p *Payment) Status() Status            { return p.status }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time      { return p.updatedAt }
