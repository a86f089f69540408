package redis

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0, 0)

	if th.maxFailures != DefaultMaxFailures {
		t.Fatalf("expected %d max failures, got %d", DefaultMaxFailures, th.maxFailures)
	}
	if th.failureWindow != DefaultFailureWindow {
		t.Fatalf("expected %v window, got %v", DefaultFailureWindow, th.failureWindow)
	}
}

func TestNewLoginThrottle_Explicit(t *testing.T) {
	th := NewLoginThrottle(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 3, time.Minute)

	if th.maxFailures != 3 || th.failureWindow != time.Minute {
		t.Fatalf("unexpected limits: %d %v", th.maxFailures, th.failureWindow)
	}
}

func TestLoginThrottle_Key(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if got := th.key("admin@iset.tn"); got != "login_failures:admin@iset.tn" {
		t.Fatalf("unexpected key %q", got)
	}
}
