package throttle

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/fmsedu/curriculum/core"
)

const (
	failPrefix = "login:fail:"
	lockPrefix = "login:lock:"
)

// RedisGuard is a core.LoginGuard sharing its counters between API instances through Redis.
type RedisGuard struct {
	client      *redis.Client
	logger      core.Logger
	maxAttempts int
	window      time.Duration
}

var _ core.LoginGuard = (*RedisGuard)(nil)

// New returns a RedisGuard, or a NoopGuard when no Redis address is configured.
func New(conf *core.Config, logger core.Logger) (core.LoginGuard, error) {
	if conf.Redis.Address == "" {
		return NoopGuard{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return NewRedisGuard(client, logger, conf.Redis.LoginMaxAttempts, conf.Redis.LoginWindow), nil
}

func NewRedisGuard(client *redis.Client, logger core.Logger, maxAttempts int, window time.Duration) *RedisGuard {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisGuard{
		client:      client,
		logger:      logger,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (g *RedisGuard) Locked(ctx context.Context, key string) time.Duration {
	ttl, err := g.client.TTL(ctx, lockPrefix+key).Result()
	if err != nil {
		g.logger.Warn("reading login lock", errors.Wrap(err, "redis TTL"))
		return 0
	}
	if ttl < 0 { // -2: no key, -1: no expiry
		return 0
	}
	return ttl
}

func (g *RedisGuard) Failed(ctx context.Context, key string) {
	failures, err := g.client.Incr(ctx, failPrefix+key).Result()
	if err != nil {
		g.logger.Warn("counting failed login", errors.Wrap(err, "redis INCR"))
		return
	}
	if failures == 1 {
		if err = g.client.Expire(ctx, failPrefix+key, g.window).Err(); err != nil {
			g.logger.Warn("counting failed login", errors.Wrap(err, "redis EXPIRE"))
		}
	}
	if d := LockDuration(int(failures), g.maxAttempts); d > 0 {
		if err = g.client.Set(ctx, lockPrefix+key, failures, d).Err(); err != nil {
			g.logger.Warn("locking login", errors.Wrap(err, "redis SET"))
		}
	}
}

func (g *RedisGuard) Succeeded(ctx context.Context, key string) {
	if err := g.client.Del(ctx, failPrefix+key, lockPrefix+key).Err(); err != nil {
		g.logger.Warn("clearing failed logins", errors.Wrap(err, "redis DEL"))
	}
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}

// LockDuration is how long a key is locked after its n-th failure within the window.
func LockDuration(failures, maxAttempts int) time.Duration {
	switch {
	case failures >= 5*maxAttempts:
		return 24 * time.Hour
	case failures >= 2*maxAttempts:
		return time.Hour
	case failures >= maxAttempts:
		return 2 * time.Minute
	}
	return 0
}

// NoopGuard never locks.
type NoopGuard struct{}

var _ core.LoginGuard = NoopGuard{}

func (NoopGuard) Locked(context.Context, string) time.Duration { return 0 }
func (NoopGuard) Failed(context.Context, string)                {}
func (NoopGuard) Succeeded(context.Context, string)             {}
