package checks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"csb/statusboard/internal/config"
)

const RedisName = "Redis"

// RedisChecker dials Redis and sends PING. Username is optional.
type RedisChecker struct {
	opts    *redis.Options
	timeout time.Duration
}

func NewRedisChecker(cfg config.RedisConfig, timeout time.Duration) *RedisChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RedisChecker{
		opts: &redis.Options{
			Addr:         cfg.Addr(),
			Username:     cfg.User,
			Password:     cfg.Password,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			PoolSize:     1,
			MaxRetries:   -1,
		},
		timeout: timeout,
	}
}

func (c *RedisChecker) Name() string { return RedisName }

func (c *RedisChecker) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client := redis.NewClient(c.opts)
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return Failed(err)
	}
	return OK()
}
