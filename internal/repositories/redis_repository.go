package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ecommkit/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis.Client
	config *config.Config
}

func NewRedisRepo(cfg *config.Config) (*RedisRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection to make sure Redis is reachable
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepo{client: client, config: cfg}, nil
}

func (r *RedisRepo) Client() *redis.Client {
	return r.client
}

// CheckLoginRateLimit implements a sliding-window counter over a sorted set.
// Returns isAllowed, attempts left, seconds to wait.
func (r *RedisRepo) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	key := fmt.Sprintf("login_attempts:%s", email)

	now := time.Now().Unix()
	windowStart := now - int64(r.config.RateLimit.WindowSize.Seconds())

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.config.RateLimit.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, err
	}

	attempts := count.Val()
	remaining := r.config.RateLimit.MaxAttempts - attempts

	if attempts >= r.config.RateLimit.MaxAttempts {
		oldest, err := r.client.ZRange(ctx, key, 0, 0).Result()
		if err != nil || len(oldest) == 0 {
			return false, 0, 0, err
		}

		oldestTime, err := strconv.ParseInt(oldest[0], 10, 64)
		if err != nil {
			return false, 0, 0, err
		}

		retryAfter := int64(r.config.RateLimit.WindowSize.Seconds()) - (now - oldestTime)

		return false, 0, int(retryAfter), nil
	}

	return true, int(remaining), 0, nil
}
