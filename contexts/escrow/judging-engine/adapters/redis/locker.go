package redis

import (
	"context"
	"fmt"
	"time"

	domainerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 2 * time.Minute
	keyPrefix  = "escrow:lock:"
)

// releaseScript deletes the lock only while it still carries our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker is a single-instance Redis lease. The TTL bounds how long a crashed
// holder can block a job.
type Locker struct {
	client *goredis.Client
	script *goredis.Script
	ttl    time.Duration
}

func NewLocker(client *goredis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Locker{
		client: client,
		script: goredis.NewScript(releaseScript),
		ttl:    ttl,
	}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", redisKey, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrJudgeInProgress, key)
	}

	return func(ctx context.Context) error {
		if err := l.script.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			return fmt.Errorf("release %s: %w", redisKey, err)
		}
		return nil
	}, nil
}
