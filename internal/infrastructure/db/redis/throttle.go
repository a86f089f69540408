package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxFailures   = 5
	DefaultFailureWindow = 15 * time.Minute
)

// LoginThrottle counts failed logins per email in Redis.
// Key format: login_failures:<email>
// The counter expires failureWindow after the first failure of a burst.
type LoginThrottle struct {
	client        *redis.Client
	maxFailures   int
	failureWindow time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
// Non-positive limits fall back to the defaults.
func NewLoginThrottle(client *redis.Client, maxFailures int, failureWindow time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	if failureWindow <= 0 {
		failureWindow = DefaultFailureWindow
	}
	return &LoginThrottle{client: client, maxFailures: maxFailures, failureWindow: failureWindow}
}

// Blocked reports whether email has reached the failure limit.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.maxFailures, nil
}

// RecordFailure increments the failure counter for email.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.failureWindow).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *LoginThrottle) key(email string) string {
	return "login_failures:" + email
}
