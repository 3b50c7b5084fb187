package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1:1234") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1:1234") {
		t.Error("Request over the limit should be blocked")
	}

	// Different client has its own budget.
	if !rl.allow("10.0.0.2:1234") {
		t.Error("Other client should not be affected")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 30*time.Millisecond)

	if !rl.allow("10.0.0.1:1234") {
		t.Fatal("First request should be allowed")
	}
	if rl.allow("10.0.0.1:1234") {
		t.Fatal("Second request in window should be blocked")
	}

	time.Sleep(40 * time.Millisecond)

	if !rl.allow("10.0.0.1:1234") {
		t.Error("Request after window should be allowed again")
	}
}
