package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("fourth request should be rejected")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.allow("10.0.0.1") {
		t.Fatal("first client should be allowed")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("second client must have its own bucket")
	}
	if rl.allow("10.0.0.1") {
		t.Error("first client is out of tokens")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(2, 10*time.Millisecond)

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.1")
	if rl.allow("10.0.0.1") {
		t.Fatal("budget should be exhausted")
	}

	time.Sleep(25 * time.Millisecond)
	if !rl.allow("10.0.0.1") {
		t.Error("tokens should have refilled")
	}
}
