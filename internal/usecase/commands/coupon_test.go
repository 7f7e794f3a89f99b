//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"commerce-core/internal/domain/coupon"
	"commerce-core/internal/pkg/clock"
	"commerce-core/internal/pkg/config"
	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/pkg/lock"
	"commerce-core/internal/pkg/metrics"
	"commerce-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type couponEnv struct {
	state *fakeState
	kv    *fakeKV
	clock *clock.MockClock
	cmds  commands.CouponCommands
}

func newCouponEnv(t *testing.T) *couponEnv {
	t.Helper()

	state := newFakeState()
	kv := newFakeKV()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	cfg := config.NewTestConfig()
	cfg.Lock.RetryInterval = time.Millisecond
	cfg.Lock.MaxWait = 2 * time.Second

	cmds := commands.NewCouponCommands(
		kv,
		&fakeUoW{state: state},
		&fakeCoupons{s: state},
		lock.NewLocker(kv, cfg.Lock.RetryInterval),
		cfg,
		clk,
		metrics.New(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return &couponEnv{state: state, kv: kv, clock: clk, cmds: cmds}
}

func (e *couponEnv) addCoupon(capacity int32) uuid.UUID {
	id := uuid.New()
	e.state.coupons[id] = coupon.NewCoupon(id, "launch", 500, capacity, capacity, coupon.StatusActive, nil, nil)
	return id
}

func TestIssueCoupon_Success(t *testing.T) {
	env := newCouponEnv(t)
	couponID := env.addCoupon(3)
	userID := uuid.New()

	issued, err := env.cmds.IssueCoupon(context.Background(), userID, couponID)
	require.NoError(t, err)
	require.Equal(t, userID, issued.UserID)
	require.Equal(t, couponID, issued.CouponID)

	require.Equal(t, int32(2), env.state.coupons[couponID].AvailableQuantity())
	row, ok := env.state.userCoupons[ucKey{userID, couponID}]
	require.True(t, ok)
	require.Equal(t, coupon.UserCouponAvailable, row.status)
}

func TestIssueCoupon_DuplicateUser(t *testing.T) {
	env := newCouponEnv(t)
	couponID := env.addCoupon(5)
	userID := uuid.New()

	_, err := env.cmds.IssueCoupon(context.Background(), userID, couponID)
	require.NoError(t, err)

	_, err = env.cmds.IssueCoupon(context.Background(), userID, couponID)
	require.ErrorIs(t, err, errs.ErrCouponAlreadyIssued)

	require.Len(t, env.state.userCoupons, 1)
	require.Equal(t, int32(4), env.state.coupons[couponID].AvailableQuantity())
}

func TestIssueCoupon_CapacityExhausted(t *testing.T) {
	env := newCouponEnv(t)
	couponID := env.addCoupon(2)

	for i := 0; i < 2; i++ {
		_, err := env.cmds.IssueCoupon(context.Background(), uuid.New(), couponID)
		require.NoError(t, err)
	}

	// The third arrival ranks at the capacity boundary and is turned away
	// before the authoritative row is touched.
	_, err := env.cmds.IssueCoupon(context.Background(), uuid.New(), couponID)
	require.ErrorIs(t, err, errs.ErrCouponOutOfStock)

	require.Len(t, env.state.userCoupons, 2)
	require.Equal(t, int32(0), env.state.coupons[couponID].AvailableQuantity())
}

func TestIssueCoupon_RankRejectionRetryStaysOutOfStock(t *testing.T) {
	env := newCouponEnv(t)
	couponID := env.addCoupon(1)
	winner := uuid.New()
	loser := uuid.New()

	_, err := env.cmds.IssueCoupon(context.Background(), winner, couponID)
	require.NoError(t, err)

	_, err = env.cmds.IssueCoupon(context.Background(), loser, couponID)
	require.ErrorIs(t, err, errs.ErrCouponOutOfStock)

	// The turned-away user keeps the consumed queue position but no claim
	// marker: they were never issued anything.
	claimSet := env.kv.sets["coupon:issued:"+couponID.String()]
	require.Contains(t, claimSet, winner.String())
	require.NotContains(t, claimSet, loser.String())

	env.clock.Add(time.Second)
	_, err = env.cmds.IssueCoupon(context.Background(), loser, couponID)
	require.ErrorIs(t, err, errs.ErrCouponOutOfStock)
	require.Len(t, env.state.userCoupons, 1)
}

func TestIssueCoupon_NotFound(t *testing.T) {
	env := newCouponEnv(t)

	_, err := env.cmds.IssueCoupon(context.Background(), uuid.New(), uuid.New())
	require.True(t, errs.Is(err, errs.ErrCouponNotFound))
}

func TestIssueCoupon_InactiveCoupon(t *testing.T) {
	env := newCouponEnv(t)
	id := uuid.New()
	env.state.coupons[id] = coupon.NewCoupon(id, "paused", 500, 10, 10, coupon.StatusInactive, nil, nil)

	_, err := env.cmds.IssueCoupon(context.Background(), uuid.New(), id)
	require.True(t, errs.Is(err, errs.ErrCouponNotAvailable))
}

func TestIssueCoupon_ExpiredCoupon(t *testing.T) {
	env := newCouponEnv(t)
	id := uuid.New()
	past := env.clock.Now().Add(-time.Hour)
	env.state.coupons[id] = coupon.NewCoupon(id, "expired", 500, 10, 10, coupon.StatusActive, nil, &past)

	_, err := env.cmds.IssueCoupon(context.Background(), uuid.New(), id)
	require.True(t, errs.Is(err, errs.ErrCouponNotAvailable))
}

func TestIssueCoupon_AuthoritativeFailureUndoesFastPath(t *testing.T) {
	env := newCouponEnv(t)
	couponID := env.addCoupon(3)
	userID := uuid.New()

	env.state.failOn["userCoupons.Insert"] = errs.New("connection reset")

	_, err := env.cmds.IssueCoupon(context.Background(), userID, couponID)
	require.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))

	// Fast-path effects are rolled back so the user can retry.
	claimSet := env.kv.sets["coupon:issued:"+couponID.String()]
	require.NotContains(t, claimSet, userID.String())
	require.Empty(t, env.kv.zsets["coupon:arrivals:"+couponID.String()])
	require.Equal(t, int64(0), env.kv.counters["coupon:stock:"+couponID.String()])

	delete(env.state.failOn, "userCoupons.Insert")

	_, err = env.cmds.IssueCoupon(context.Background(), userID, couponID)
	require.NoError(t, err)
}

func TestIssueCoupon_ConcurrentSingleWinner(t *testing.T) {
	env := newCouponEnv(t)
	couponID := env.addCoupon(1)

	const contenders = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.cmds.IssueCoupon(context.Background(), uuid.New(), couponID)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Len(t, env.state.userCoupons, 1)
	require.Equal(t, int32(0), env.state.coupons[couponID].AvailableQuantity())
}
