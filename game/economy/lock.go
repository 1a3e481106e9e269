package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/mireuk/gameledger/cache"
)

// lockTTL bounds how long an advisory lock may outlive a crashed holder.
const lockTTL = 10 * time.Second

// WithCharacterLock serializes mutations of one character's wallet, stock,
// equipment, and existence. Contention is reported as a transient error:
// the failed call wrote nothing, so the caller may retry freely.
func WithCharacterLock(ctx context.Context, c cache.Cache, charID int64, fn func() error) error {
	return withLock(ctx, c, fmt.Sprintf("lock:char:%d", charID), ErrCharacterBusy, fn)
}

// WithItemLock serializes equip and unequip against catalog modifier edits
// of the same item, so neither side can commit against the other's stale
// modifier or miss a wearer.
func WithItemLock(ctx context.Context, c cache.Cache, itemCode int, fn func() error) error {
	return withLock(ctx, c, fmt.Sprintf("lock:item:%d", itemCode), ErrItemBusy, fn)
}

func withLock(ctx context.Context, c cache.Cache, key string, busy *Error, fn func() error) error {
	ok, err := c.SetNX(ctx, key, "1", lockTTL)
	if err != nil {
		return Transient(err)
	}
	if !ok {
		return busy
	}
	defer func() { _ = c.Del(ctx, key) }()
	return fn()
}
