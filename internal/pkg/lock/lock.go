// Package lock provides a lease-based distributed mutex over an atomic
// key-value store. Ownership is a token stored under the lock key; release
// only succeeds while the stored token still matches (compare-and-delete),
// so a holder whose lease expired cannot release the next holder's lock.
package lock

import (
	"context"
	"time"

	"commerce-core/internal/pkg/errs"

	"github.com/google/uuid"
)

const keyPrefix = "lock:"

// Store is the subset of key-value primitives the lock needs.
type Store interface {
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
}

// Handle identifies one successful acquisition. It is only valid until the
// lease expires; there is no heartbeat or renewal.
type Handle struct {
	Key         string
	OwnerToken  string
	LeaseExpiry time.Time
}

type Locker struct {
	store         Store
	retryInterval time.Duration
}

func NewLocker(store Store, retryInterval time.Duration) *Locker {
	if retryInterval <= 0 {
		retryInterval = 50 * time.Millisecond
	}
	return &Locker{store: store, retryInterval: retryInterval}
}

// Acquire attempts set-if-absent under the lock key. maxWait == 0 means a
// single non-blocking attempt; otherwise it spins on a fixed interval until
// maxWait elapses, then fails with ErrLockNotAcquired.
func (l *Locker) Acquire(ctx context.Context, key string, lease, maxWait time.Duration) (*Handle, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(maxWait)

	for {
		ok, err := l.store.SetIfAbsent(ctx, keyPrefix+key, token, lease)
		if err != nil {
			return nil, errs.Wrap(err, "lock store set-if-absent failed")
		}
		if ok {
			return &Handle{
				Key:         key,
				OwnerToken:  token,
				LeaseExpiry: time.Now().Add(lease),
			}, nil
		}

		if maxWait <= 0 || !time.Now().Add(l.retryInterval).Before(deadline) {
			return nil, errs.ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// Release deletes the lock key only if it still holds the handle's token.
// A handle whose lease already expired is released as a no-op.
func (l *Locker) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	_, err := l.store.CompareAndDelete(ctx, keyPrefix+h.Key, h.OwnerToken)
	if err != nil {
		return errs.Wrap(err, "lock store compare-and-delete failed")
	}
	return nil
}

// WithLock runs fn while holding the named lock. The lock is released on
// every path; release failures are ignored since the lease expires anyway.
func (l *Locker) WithLock(ctx context.Context, key string, lease, maxWait time.Duration, fn func(ctx context.Context) error) error {
	h, err := l.Acquire(ctx, key, lease, maxWait)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Release(ctx, h)
	}()
	return fn(ctx)
}
