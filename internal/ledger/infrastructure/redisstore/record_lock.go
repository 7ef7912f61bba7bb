package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joneireis/cidacake-program/internal/ledger/domain"
	"github.com/joneireis/cidacake-program/internal/pkg/logging"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix     = "recordlock:"
	defaultLockTTL    = 10 * time.Second
	lockRetryInterval = 10 * time.Millisecond
)

var releaseLockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end

return 0
`)

// RecordLocker serializes invocations against one record address. The lock is
// a SET NX key holding a per-acquisition token; release deletes the key only
// if the token still matches, so an expired lock is never released by its
// former holder.
type RecordLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

func NewRecordLocker(client *redis.Client, logger logging.Logger) *RecordLocker {
	return &RecordLocker{
		client: client,
		ttl:    defaultLockTTL,
		logger: logger,
	}
}

func (l *RecordLocker) LockRecord(ctx context.Context, address domain.Address) (domain.UnlockFunc, error) {
	key := lockKeyPrefix + address.String()
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire record lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	unlock := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseLockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release record lock", "key", key, "error", err.Error())
		}
	}

	return unlock, nil
}
