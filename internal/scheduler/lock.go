package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/lithammer/shortuuid/v4"
	"github.com/redis/go-redis/v9"
)

const leaseKeyPrefix = "cmis:scheduler:lease:"

// ErrLeaseHeld is returned when another instance currently holds the lease.
var ErrLeaseHeld = errors.New("lease held by another instance")

// releaseScript deletes the lease only if it is still owned by the caller.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type leaseClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker is a gocron.Locker backed by a Redis SET NX lease, so a job runs on at most one
// replica at a time. The TTL bounds how long a crashed holder blocks the others.
type RedisLocker struct {
	client leaseClient
	ttl    time.Duration
}

func NewRedisLocker(client leaseClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	token := shortuuid.New()
	leaseKey := leaseKeyPrefix + key

	acquired, err := l.client.SetNX(ctx, leaseKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lease %s: %w", leaseKey, err)
	}
	if !acquired {
		return nil, ErrLeaseHeld
	}

	return &redisLease{client: l.client, key: leaseKey, token: token}, nil
}

type redisLease struct {
	client leaseClient
	key    string
	token  string
}

func (l *redisLease) Unlock(ctx context.Context) error {
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("failed to release lease %s: %w", l.key, err)
	}
	return nil
}
