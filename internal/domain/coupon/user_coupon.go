package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserCouponNotUsable     = errors.New("user coupon is not usable")
	ErrUserCouponNotRestorable = errors.New("user coupon is not restorable")
)

type UserCouponStatus string

const (
	UserCouponAvailable UserCouponStatus = "AVAILABLE"
	UserCouponUsed      UserCouponStatus = "USED"
)

// UserCoupon is one user's issued copy of a coupon. Issuance creates it
// AVAILABLE; applying it to an order moves it to USED; compensation and
// order cancellation move it back.
type UserCoupon struct {
	id       uuid.UUID
	userID   uuid.UUID
	couponID uuid.UUID
	status   UserCouponStatus
	issuedAt time.Time
	usedAt   *time.Time
}

func NewUserCoupon(id, userID, couponID uuid.UUID, issuedAt time.Time) *UserCoupon {
	return &UserCoupon{
		id:       id,
		userID:   userID,
		couponID: couponID,
		status:   UserCouponAvailable,
		issuedAt: issuedAt,
	}
}

func Restore(id, userID, couponID uuid.UUID, status UserCouponStatus, issuedAt time.Time, usedAt *time.Time) *UserCoupon {
	return &UserCoupon{
		id:       id,
		userID:   userID,
		couponID: couponID,
		status:   status,
		issuedAt: issuedAt,
		usedAt:   usedAt,
	}
}

func (u *UserCoupon) Use(t time.Time) error {
	if u.status != UserCouponAvailable {
		return ErrUserCouponNotUsable
	}
	u.status = UserCouponUsed
	u.usedAt = &t
	return nil
}

func (u *UserCoupon) Unuse() error {
	if u.status != UserCouponUsed {
		return ErrUserCouponNotRestorable
	}
	u.status = UserCouponAvailable
	u.usedAt = nil
	return nil
}

func (u *UserCoupon) ID() uuid.UUID            { return u.id }
func (u *UserCoupon) UserID() uuid.UUID        { return u.userID }
func (u *UserCoupon) CouponID() uuid.UUID      { return u.couponID }
func (u *UserCoupon) Status() UserCouponStatus { return u.status }
func (u *UserCoupon) IssuedAt() time.Time      { return u.issuedAt }
func (u *UserCoupon) UsedAt() *time.Time       { return u.usedAt }
