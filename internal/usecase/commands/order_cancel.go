package commands

import (
	"context"

	"commerce-core/internal/domain/order"
	"commerce-core/internal/domain/payment"
	"commerce-core/internal/infra"
	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// CancelOrder reverses a completed or pending order in a single transaction:
// status flip, point refund, coupon restore, stock return, sales counter
// rollback and payment invalidation all commit or roll back together.
func (u *orderCommandsImpl) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrOrderNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		wasCompleted := o.IsCompleted()
		if err := o.Cancel(); err != nil {
			return errs.Mark(err, errs.ErrOrderNotCancelable)
		}
		if err := tx.Orders().UpdateStatus(ctx, o.ID(), order.StatusCanceled); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if _, err := tx.Points().Credit(ctx, o.UserID(), o.FinalCents(), "ORDER_CANCEL"); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if cid := o.CouponID(); cid != nil {
			if err := tx.UserCoupons().MarkAvailable(ctx, o.UserID(), *cid); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		for _, line := range o.Lines() {
			if err := tx.Products().IncreaseStock(ctx, line.ProductID, line.Quantity); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if err := tx.Products().RecordMovement(ctx, line.ProductID, o.ID(), line.Quantity, "IN"); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if wasCompleted {
				if err := tx.Products().DecreaseSales(ctx, line.ProductID, line.Quantity); err != nil {
					return errs.Mark(err, errs.ErrDatabaseOperationFailed)
				}
			}
		}

		p, err := tx.Payments().FindByOrderID(ctx, o.ID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		// Failing the payment frees the idempotency key for a fresh order.
		if p.Status() != payment.StatusFailed {
			if err := tx.Payments().UpdateStatus(ctx, p.ID(), payment.StatusFailed); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.logger.Info("order canceled", "order_id", orderID)
	return nil
}
