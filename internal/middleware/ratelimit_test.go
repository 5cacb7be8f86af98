package middleware

import (
	"fmt"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		config: RateLimitConfig{
			Max:    3,
			Window: time.Minute,
		},
	}

	for i := 0; i < 3; i++ {
		if !rl.Allow("owner:alice") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("owner:alice") {
		t.Fatal("request 4 should be denied")
	}
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		config: RateLimitConfig{
			Max:    1,
			Window: time.Minute,
		},
	}

	if !rl.Allow("owner:alice") {
		t.Fatal("first request for alice should be allowed")
	}
	if rl.Allow("owner:alice") {
		t.Fatal("second request for alice should be denied")
	}
	if !rl.Allow("owner:bob") {
		t.Fatal("bob should not be affected by alice's limit")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		config: RateLimitConfig{
			Max:    1,
			Window: 10 * time.Millisecond,
		},
	}

	if !rl.Allow("owner:alice") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("owner:alice") {
		t.Fatal("second request should be denied")
	}

	time.Sleep(15 * time.Millisecond)

	if !rl.Allow("owner:alice") {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestRateLimiterManyKeys(t *testing.T) {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		config: RateLimitConfig{
			Max:    1,
			Window: time.Minute,
		},
	}

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("owner:%d", i)
		if !rl.Allow(key) {
			t.Fatalf("first request for %s should be allowed", key)
		}
	}
	if len(rl.windows) != 100 {
		t.Fatalf("expected 100 tracked windows, got %d", len(rl.windows))
	}
}
