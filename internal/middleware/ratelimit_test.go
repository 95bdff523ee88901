package middleware

import (
	"testing"
	"time"
)

func TestAllowEnforcesLimitPerIP(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d under the limit was denied", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request over the limit was allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other IP should not share the limit")
	}
}

func TestAllowPrunesIdleIPs(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	// An IP whose requests all predate twice the window gets dropped the
	// next time a cleanup pass runs.
	stale := time.Now().Add(-3 * time.Minute)
	rl.requests["9.9.9.9"] = []time.Time{stale, stale}
	rl.lastCleanup = time.Now().Add(-2 * time.Minute)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("fresh request was denied")
	}
	if _, ok := rl.requests["9.9.9.9"]; ok {
		t.Fatal("idle IP was not pruned")
	}
	if _, ok := rl.requests["1.2.3.4"]; !ok {
		t.Fatal("active IP was pruned")
	}
}
