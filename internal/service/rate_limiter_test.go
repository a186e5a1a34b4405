package service

import (
	"testing"
	"time"
)

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	now := time.Now().UTC()
	limiter := NewRateLimiterWithClock(time.Minute, 3, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !limiter.Allow("login:alice@example.com") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if limiter.Allow("login:alice@example.com") {
		t.Fatalf("fourth attempt should be blocked")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	now := time.Now().UTC()
	limiter := NewRateLimiterWithClock(time.Minute, 1, func() time.Time { return now })

	if !limiter.Allow("a") {
		t.Fatalf("first key should be allowed")
	}
	if !limiter.Allow("b") {
		t.Fatalf("second key should be allowed")
	}
	if limiter.Allow("a") {
		t.Fatalf("repeated key should be blocked")
	}
}

func TestRateLimiter_UnblocksAfterWindow(t *testing.T) {
	now := time.Now().UTC()
	limiter := NewRateLimiterWithClock(time.Minute, 1, func() time.Time { return now })

	if !limiter.Allow("key") {
		t.Fatalf("first attempt should be allowed")
	}
	if limiter.Allow("key") {
		t.Fatalf("second attempt inside window should be blocked")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Allow("key") {
		t.Fatalf("attempt after window should be allowed")
	}
}
