package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockLost is returned by Release when the lock expired or was taken over.
var ErrLockLost = errors.New("lock expired before release")

// Locker implements usecase.Locker using Redis.
type Locker struct {
	client *redis.Client
}

// NewLocker creates a new Locker.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire takes key for ttl. A held key yields domain.ErrOperationInProgress.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (usecase.Lock, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOperationInProgress
	}

	return &lock{client: l.client, key: key, token: token}, nil
}

type lock struct {
	client *redis.Client
	key    string
	token  string
}

func (l *lock) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockLost
	}
	return nil
}
