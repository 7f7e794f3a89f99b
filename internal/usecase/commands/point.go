package commands

import (
	"context"
	"log/slog"

	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type PointCommands interface {
	ChargePoints(ctx context.Context, userID uuid.UUID, amountCents int64) (int64, error)
}

type pointCommandsImpl struct {
	uow    shared.UnitOfWork
	logger *slog.Logger
}

func NewPointCommands(uow shared.UnitOfWork, logger *slog.Logger) PointCommands {
	return &pointCommandsImpl{uow: uow, logger: logger}
}

var errInvalidChargeAmount = errs.New("charge amount must be positive")

func (u *pointCommandsImpl) ChargePoints(ctx context.Context, userID uuid.UUID, amountCents int64) (int64, error) {
	if amountCents <= 0 {
		return 0, errInvalidChargeAmount
	}

	var balance int64
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		balance, err = tx.Points().Credit(ctx, userID, amountCents, "CHARGE")
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	u.logger.Info("points charged", "user_id", userID, "amount_cents", amountCents, "balance_cents", balance)
	return balance, nil
}
