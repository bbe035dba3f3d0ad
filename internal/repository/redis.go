package repository

import (
	"context"
	"errors"
	"time"

	"coursetrack-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ========== OTP STORE ==========

type otpStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) domain.OTPStore {
	return &otpStore{rdb}
}

func (s *otpStore) key(email string) string {
	return "otp:" + email
}

func (s *otpStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(email), code, ttl).Err()
}

func (s *otpStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.rdb.Get(ctx, s.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidOTP
	}
	return code, err
}

func (s *otpStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, s.key(email)).Err()
}

// ========== CACHE ==========

// ErrCacheMiss signals the key is absent; callers fall through to the
// backing store.
var ErrCacheMiss = errors.New("cache miss")

type redisCache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) domain.Cache {
	return &redisCache{rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
