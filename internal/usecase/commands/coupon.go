package commands

import (
	"context"
	"log/slog"
	"time"

	"commerce-core/internal/domain/coupon"
	"commerce-core/internal/infra"
	"commerce-core/internal/pkg/clock"
	"commerce-core/internal/pkg/config"
	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/pkg/lock"
	"commerce-core/internal/pkg/metrics"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type IssuedCoupon struct {
	UserCouponID uuid.UUID
	CouponID     uuid.UUID
	UserID       uuid.UUID
	IssuedAt     time.Time
}

type CouponCommands interface {
	IssueCoupon(ctx context.Context, userID, couponID uuid.UUID) (*IssuedCoupon, error)
}

type couponCommandsImpl struct {
	kv      shared.KeyValueStore
	uow     shared.UnitOfWork
	coupons shared.CouponRepository // pool-bound, capacity read outside the lock tx
	locker  *lock.Locker
	lockCfg config.LockConfig
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewCouponCommands(
	kv shared.KeyValueStore,
	uow shared.UnitOfWork,
	coupons shared.CouponRepository,
	locker *lock.Locker,
	cfg config.Config,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) CouponCommands {
	return &couponCommandsImpl{
		kv:      kv,
		uow:     uow,
		coupons: coupons,
		locker:  locker,
		lockCfg: cfg.Lock,
		clock:   clk,
		metrics: m,
		logger:  logger,
	}
}

func claimKey(couponID uuid.UUID) string   { return "coupon:issued:" + couponID.String() }
func arrivalKey(couponID uuid.UUID) string { return "coupon:arrivals:" + couponID.String() }
func counterKey(couponID uuid.UUID) string { return "coupon:stock:" + couponID.String() }

// IssueCoupon admits at most capacity claims in strict arrival order.
//
// Phase 1 (fast path): atomic per-user claim marker, arrival ledger entry,
// zero-based rank against the advertised capacity. Losers never touch the
// authoritative row.
//
// Phase 2 (authoritative path): row lock on the coupon record, status and
// validity re-check, final quantity check, durable decrement, issuance
// insert. Any Phase-2 failure undoes Phase 1 so the user can retry and
// capacity is not unfairly consumed.
func (c *couponCommandsImpl) IssueCoupon(ctx context.Context, userID, couponID uuid.UUID) (*IssuedCoupon, error) {
	var issued *IssuedCoupon
	err := c.locker.WithLock(ctx, "coupon:"+couponID.String(), c.lockCfg.Lease, c.lockCfg.MaxWait, func(ctx context.Context) error {
		var err error
		issued, err = c.issue(ctx, userID, couponID)
		return err
	})
	if err != nil {
		c.countRejection(err)
		return nil, err
	}
	c.metrics.CouponIssued.Inc()
	return issued, nil
}

func (c *couponCommandsImpl) issue(ctx context.Context, userID, couponID uuid.UUID) (*IssuedCoupon, error) {
	advertised, err := c.coupons.FindByID(ctx, couponID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrCouponNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	admitted, err := c.admitFastPath(ctx, userID, couponID, advertised.InitialQuantity())
	if err != nil {
		return nil, err
	}
	if !admitted {
		return nil, errs.ErrCouponOutOfStock
	}

	issued, err := c.issueAuthoritative(ctx, userID, couponID)
	if err != nil {
		// AlreadyIssued means an earlier issuance owns the claim marker;
		// everything else undoes this request's fast-path effects.
		if !errs.Is(err, errs.ErrCouponAlreadyIssued) {
			c.undoFastPath(ctx, userID, couponID)
		}
		return nil, err
	}
	return issued, nil
}

// admitFastPath returns false when this user's arrival rank is at or past
// the advertised capacity. Rank ties on identical acquisition time resolve
// by the ordered structure's stable member order.
func (c *couponCommandsImpl) admitFastPath(ctx context.Context, userID, couponID uuid.UUID, capacity int32) (bool, error) {
	member := userID.String()

	added, err := c.kv.AddToSet(ctx, claimKey(couponID), member)
	if err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !added {
		return false, errs.ErrCouponAlreadyIssued
	}

	score := float64(c.clock.Now().UnixNano())
	if err := c.kv.OrderedAdd(ctx, arrivalKey(couponID), member, score); err != nil {
		c.removeClaim(ctx, userID, couponID)
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	rank, found, err := c.kv.OrderedRank(ctx, arrivalKey(couponID), member)
	if err != nil || !found {
		c.undoFastPath(ctx, userID, couponID)
		if err == nil {
			err = errs.New("arrival entry vanished before rank query")
		}
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if rank >= int64(capacity) {
		// The arrival entry keeps the consumed queue position, but the claim
		// marker comes back: this user holds nothing, and a retry must report
		// out-of-stock rather than an issuance that never happened.
		c.removeClaim(ctx, userID, couponID)
		return false, nil
	}

	if _, err := c.kv.IncrBy(ctx, counterKey(couponID), -1); err != nil {
		c.undoFastPath(ctx, userID, couponID)
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return true, nil
}

func (c *couponCommandsImpl) issueAuthoritative(ctx context.Context, userID, couponID uuid.UUID) (*IssuedCoupon, error) {
	now := c.clock.Now()
	var issued *IssuedCoupon

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		authoritative, err := tx.Coupons().FindByIDForUpdate(ctx, couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrCouponNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := authoritative.ValidateIssuable(now); err != nil {
			if errs.Is(err, coupon.ErrCouponExhausted) {
				return errs.Mark(err, errs.ErrCouponOutOfStock)
			}
			return errs.Mark(err, errs.ErrCouponNotAvailable)
		}

		if err := authoritative.Decrease(); err != nil {
			return errs.Mark(err, errs.ErrCouponOutOfStock)
		}
		if err := tx.Coupons().UpdateQuantity(ctx, authoritative); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		uc := coupon.NewUserCoupon(uuid.New(), userID, couponID, now)
		if err := tx.UserCoupons().Insert(ctx, uc); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrCouponAlreadyIssued)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		issued = &IssuedCoupon{
			UserCouponID: uc.ID(),
			CouponID:     couponID,
			UserID:       userID,
			IssuedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// undoFastPath reverses the claim marker, arrival entry and fast counter so
// the user can legitimately retry. Failures only log: the authoritative
// state is already consistent, stale fast-path entries cost a retry at
// worst.
func (c *couponCommandsImpl) undoFastPath(ctx context.Context, userID, couponID uuid.UUID) {
	member := userID.String()
	if err := c.kv.OrderedRemove(ctx, arrivalKey(couponID), member); err != nil {
		c.logger.Error("failed to remove coupon arrival entry", "coupon_id", couponID, "user_id", userID, "error", err.Error())
	}
	if _, err := c.kv.IncrBy(ctx, counterKey(couponID), 1); err != nil {
		c.logger.Error("failed to restore coupon fast counter", "coupon_id", couponID, "error", err.Error())
	}
	c.removeClaim(ctx, userID, couponID)
}

func (c *couponCommandsImpl) removeClaim(ctx context.Context, userID, couponID uuid.UUID) {
	if err := c.kv.RemoveFromSet(ctx, claimKey(couponID), userID.String()); err != nil {
		c.logger.Error("failed to remove coupon claim marker", "coupon_id", couponID, "user_id", userID, "error", err.Error())
	}
}

func (c *couponCommandsImpl) countRejection(err error) {
	switch {
	case errs.Is(err, errs.ErrCouponAlreadyIssued):
		c.metrics.CouponRejected.WithLabelValues("already_issued").Inc()
	case errs.Is(err, errs.ErrCouponOutOfStock):
		c.metrics.CouponRejected.WithLabelValues("out_of_stock").Inc()
	case errs.Is(err, errs.ErrCouponNotAvailable):
		c.metrics.CouponRejected.WithLabelValues("not_available").Inc()
	case errs.Is(err, errs.ErrLockNotAcquired):
		c.metrics.CouponRejected.WithLabelValues("lock_busy").Inc()
	default:
		c.metrics.CouponRejected.WithLabelValues("error").Inc()
	}
}
