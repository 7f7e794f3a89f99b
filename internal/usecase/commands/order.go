package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"commerce-core/internal/domain/coupon"
	"commerce-core/internal/domain/order"
	"commerce-core/internal/domain/payment"
	"commerce-core/internal/infra"
	"commerce-core/internal/pkg/clock"
	"commerce-core/internal/pkg/config"
	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/pkg/lock"
	"commerce-core/internal/pkg/metrics"
	"commerce-core/internal/usecase/saga"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int32
}

type PlaceOrderInput struct {
	IdempotencyKey uuid.UUID
	Items          []OrderItemInput
	CouponID       *uuid.UUID
}

type OrderResult struct {
	OrderID       uuid.UUID
	PaymentID     uuid.UUID
	TotalCents    int64
	DiscountCents int64
	FinalCents    int64
	Status        order.Status
}

type OrderCommands interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderResult, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow      shared.UnitOfWork
	payments shared.PaymentRepository // pool-bound, idempotency pre-check
	locker   *lock.Locker
	lockCfg  config.LockConfig
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	payments shared.PaymentRepository,
	locker *lock.Locker,
	cfg config.Config,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) OrderCommands {
	return &orderCommandsImpl{
		uow:      uow,
		payments: payments,
		locker:   locker,
		lockCfg:  cfg.Lock,
		clock:    clk,
		metrics:  m,
		logger:   logger,
	}
}

// orderSagaState accumulates the effects of completed steps so each
// compensation knows exactly what to reverse.
type orderSagaState struct {
	userID   uuid.UUID
	input    PlaceOrderInput
	products map[uuid.UUID]shared.ProductSnapshot
	lines    []order.Line

	discountCents int64
	finalCents    int64

	order   *order.Order
	payment *payment.Payment
}

// PlaceOrder runs the idempotency guard, then the compensating saga under a
// per-(user, idempotency key) lock:
//
//	ReserveStock -> CalculatePrice -> ApplyCoupon -> DebitPoints ->
//	CreateOrder -> CreatePayment
//
// then the completion transaction: CompletePayment + CompleteOrder +
// IncreaseSalesCounters + AppendOutboxRecord, all atomic.
func (u *orderCommandsImpl) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderResult, error) {
	if input.IdempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}
	if err := u.checkIdempotency(ctx, userID, input.IdempotencyKey); err != nil {
		return nil, err
	}

	lockKey := "order:" + userID.String() + ":" + input.IdempotencyKey.String()

	var result *OrderResult
	err := u.locker.WithLock(ctx, lockKey, u.lockCfg.Lease, u.lockCfg.MaxWait, func(ctx context.Context) error {
		var err error
		result, err = u.placeOrder(ctx, userID, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkIdempotency rejects a key that already has a non-FAILED payment.
// The partial unique index on payments is the final guard for the race
// between this check and the insert.
func (u *orderCommandsImpl) checkIdempotency(ctx context.Context, userID, key uuid.UUID) error {
	existing, err := u.payments.FindActiveByIdempotencyKey(ctx, userID, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	switch existing.Status() {
	case payment.StatusCompleted:
		return errs.ErrAlreadyProcessed
	default:
		return errs.ErrDuplicateInFlight
	}
}

func (u *orderCommandsImpl) placeOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderResult, error) {
	state := &orderSagaState{userID: userID, input: input}

	sg := saga.New(u.logger).
		AddStep(saga.Step{
			Name:       "ReserveStock",
			Run:        func(ctx context.Context) error { return u.reserveStock(ctx, state) },
			Compensate: func(ctx context.Context) error { return u.restoreStock(ctx, state) },
		}).
		AddStep(saga.Step{
			Name: "CalculatePrice",
			Run:  func(ctx context.Context) error { return u.calculatePrice(ctx, state) },
		}).
		AddStep(saga.Step{
			Name:       "ApplyCoupon",
			Run:        func(ctx context.Context) error { return u.applyCoupon(ctx, state) },
			Compensate: func(ctx context.Context) error { return u.restoreCoupon(ctx, state) },
		}).
		AddStep(saga.Step{
			Name:       "DebitPoints",
			Run:        func(ctx context.Context) error { return u.debitPoints(ctx, state) },
			Compensate: func(ctx context.Context) error { return u.refundPoints(ctx, state) },
		}).
		AddStep(saga.Step{
			Name:       "CreateOrder",
			Run:        func(ctx context.Context) error { return u.createOrder(ctx, state) },
			Compensate: func(ctx context.Context) error { return u.cancelCreatedOrder(ctx, state) },
		}).
		AddStep(saga.Step{
			Name:       "CreatePayment",
			Run:        func(ctx context.Context) error { return u.createPayment(ctx, state) },
			Compensate: func(ctx context.Context) error { return u.failCreatedPayment(ctx, state) },
		})

	if err := sg.Execute(ctx); err != nil {
		u.metrics.OrdersCompensated.Inc()
		return nil, err
	}

	if err := u.complete(ctx, state); err != nil {
		u.logger.Error("order completion failed, compensating saga",
			"order_id", state.order.ID(), "error", err.Error())
		sg.Compensate(ctx)
		u.metrics.OrdersCompensated.Inc()
		return nil, &saga.OperationFailed{Step: "CompleteOrder", Cause: err}
	}

	u.metrics.OrdersCompleted.Inc()
	return &OrderResult{
		OrderID:       state.order.ID(),
		PaymentID:     state.payment.ID(),
		TotalCents:    state.order.TotalCents(),
		DiscountCents: state.order.DiscountCents(),
		FinalCents:    state.order.FinalCents(),
		Status:        order.StatusCompleted,
	}, nil
}

func (u *orderCommandsImpl) reserveStock(ctx context.Context, state *orderSagaState) error {
	if len(state.input.Items) == 0 {
		return errs.ErrProductNotFound
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ids := make([]uuid.UUID, 0, len(state.input.Items))
		for _, item := range state.input.Items {
			ids = append(ids, item.ProductID)
		}

		snapshots, err := tx.Products().FindByIDs(ctx, ids)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		state.products = make(map[uuid.UUID]shared.ProductSnapshot, len(snapshots))
		for _, p := range snapshots {
			state.products[p.ID] = p
		}

		state.lines = state.lines[:0]
		for _, item := range state.input.Items {
			p, ok := state.products[item.ProductID]
			if !ok {
				return errs.ErrProductNotFound
			}
			if err := tx.Products().DecreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.Mark(err, errs.ErrInsufficientStock)
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			state.lines = append(state.lines, order.Line{
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				UnitPriceCents: p.PriceCents,
			})
		}
		return nil
	})
}

func (u *orderCommandsImpl) restoreStock(ctx context.Context, state *orderSagaState) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, line := range state.lines {
			if err := tx.Products().IncreaseStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// calculatePrice validates the coupon (ownership, usability, window) and
// fixes the discount. Read-only: nothing to compensate.
func (u *orderCommandsImpl) calculatePrice(ctx context.Context, state *orderSagaState) error {
	var total int64
	for _, line := range state.lines {
		total += line.SubtotalCents()
	}

	if state.input.CouponID == nil {
		state.finalCents = total
		return nil
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		uc, err := tx.UserCoupons().FindByUserAndCoupon(ctx, state.userID, *state.input.CouponID)
		if err != nil {
			return errs.Mark(err, errs.ErrCouponInvalid)
		}
		if uc.Status() != coupon.UserCouponAvailable {
			return errs.ErrCouponInvalid
		}

		c, err := tx.Coupons().FindByID(ctx, *state.input.CouponID)
		if err != nil {
			return errs.Mark(err, errs.ErrCouponInvalid)
		}
		if c.Status() != coupon.StatusActive || !c.IsValidAt(u.clock.Now()) {
			return errs.ErrCouponInvalid
		}

		discounted := c.ApplyDiscount(total)
		state.discountCents = total - discounted
		state.finalCents = discounted
		return nil
	})
}

func (u *orderCommandsImpl) applyCoupon(ctx context.Context, state *orderSagaState) error {
	if state.input.CouponID == nil {
		return nil
	}
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.UserCoupons().MarkUsed(ctx, state.userID, *state.input.CouponID, u.clock.Now())
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrCouponInvalid)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *orderCommandsImpl) restoreCoupon(ctx context.Context, state *orderSagaState) error {
	if state.input.CouponID == nil {
		return nil
	}
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.UserCoupons().MarkAvailable(ctx, state.userID, *state.input.CouponID)
	})
}

func (u *orderCommandsImpl) debitPoints(ctx context.Context, state *orderSagaState) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Points().Debit(ctx, state.userID, state.finalCents, "ORDER_PAYMENT")
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrInsufficientPoints)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *orderCommandsImpl) refundPoints(ctx context.Context, state *orderSagaState) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Points().Credit(ctx, state.userID, state.finalCents, "ORDER_ROLLBACK")
		return err
	})
}

func (u *orderCommandsImpl) createOrder(ctx context.Context, state *orderSagaState) error {
	o, err := order.NewOrder(uuid.New(), state.userID, state.input.CouponID, state.lines, state.discountCents)
	if err != nil {
		return errs.Mark(err, errs.ErrProductNotFound)
	}
	state.order = o

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Orders().Create(ctx, o); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, line := range o.Lines() {
			if err := tx.Products().RecordMovement(ctx, line.ProductID, o.ID(), line.Quantity, "OUT"); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
}

func (u *orderCommandsImpl) cancelCreatedOrder(ctx context.Context, state *orderSagaState) error {
	if state.order == nil {
		return nil
	}
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().UpdateStatus(ctx, state.order.ID(), order.StatusCanceled)
	})
}

func (u *orderCommandsImpl) createPayment(ctx context.Context, state *orderSagaState) error {
	p := payment.NewPayment(uuid.New(), state.order.ID(), state.userID, state.input.IdempotencyKey, state.finalCents)
	state.payment = p

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Payments().Create(ctx, p); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDuplicateInFlight)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *orderCommandsImpl) failCreatedPayment(ctx context.Context, state *orderSagaState) error {
	if state.payment == nil {
		return nil
	}
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().UpdateStatus(ctx, state.payment.ID(), payment.StatusFailed)
	})
}

type orderCompletedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	FinalCents  int64     `json:"final_cents"`
	CompletedAt time.Time `json:"completed_at"`
}

// complete runs the completion phase in one transaction: an event can
// neither be lost relative to, nor exist without, the COMPLETED state it
// reports.
func (u *orderCommandsImpl) complete(ctx context.Context, state *orderSagaState) error {
	now := u.clock.Now()
	payload, err := json.Marshal(orderCompletedEvent{
		OrderID:     state.order.ID(),
		UserID:      state.userID,
		FinalCents:  state.order.FinalCents(),
		CompletedAt: now,
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal order completed event")
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Payments().UpdateStatus(ctx, state.payment.ID(), payment.StatusCompleted); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, state.order.ID(), order.StatusCompleted); err != nil {
			return err
		}
		for _, line := range state.order.Lines() {
			if err := tx.Products().IncreaseSales(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		rec := shared.NewOutboxRecord(shared.AggregateOrder, state.order.ID(), shared.EventOrderCompleted, payload)
		return tx.Outbox().Append(ctx, rec)
	})
}
