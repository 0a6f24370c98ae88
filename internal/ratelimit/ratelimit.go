// Package ratelimit 基于 Redis 的固定窗口限流器，用于登录和找回密码接口
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shop-admin/internal/apperr"
)

// Limiter Redis 固定窗口限流器。nil Limiter 表示限流关闭，Allow 始终放行。
type Limiter struct {
	client *redis.Client
	prefix string
}

// NewLimiterFromURL 从 Redis URL 创建限流器，url 为空时返回 nil（限流关闭）
func NewLimiterFromURL(url string) (*Limiter, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Printf("[ratelimit] Connected to Redis at %s", opts.Addr)
	return &Limiter{client: client, prefix: "ratelimit:"}, nil
}

// Allow 在 window 内对 key 最多放行 limit 次，超出返回 429 错误。
// 计数器在窗口首次命中时设置过期时间。
func (l *Limiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) error {
	if l == nil {
		return nil
	}

	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// Redis 故障时放行，限流不应阻断业务
		log.Printf("[ratelimit] WARNING: incr failed for %s: %v", key, err)
		return nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			log.Printf("[ratelimit] WARNING: expire failed for %s: %v", key, err)
		}
	}

	if count > limit {
		return apperr.TooManyRequests("Too many attempts, please try again later.")
	}
	return nil
}

// Close 关闭 Redis 连接
func (l *Limiter) Close() error {
	if l == nil {
		return nil
	}
	return l.client.Close()
}
