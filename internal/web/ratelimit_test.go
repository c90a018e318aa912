package web

import (
	"testing"
	"time"
)

func TestRateLimiter_RefillsGradually(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)
	defer rl.stop()

	lim := rl.limiterFor("198.51.100.7")
	base := time.Now()

	steps := []struct {
		at   time.Duration
		n    int
		want bool
	}{
		{0, 3, true},                 // full bucket on first sight
		{time.Second, 1, false},      // empty
		{21 * time.Second, 1, true},  // one token back after window/3
		{22 * time.Second, 1, false}, // and only one
		{61 * time.Second, 2, true},  // two more by the end of the window
		{62 * time.Second, 1, false}, // no fresh full budget at the boundary
		{10 * time.Minute, 4, false}, // never more than the burst
		{10 * time.Minute, 3, true},
	}

	for _, s := range steps {
		if got := lim.AllowN(base.Add(s.at), s.n); got != s.want {
			t.Errorf("AllowN(+%v, %d) = %v, want %v", s.at, s.n, got, s.want)
		}
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	defer rl.stop()

	if !rl.allow("192.0.2.1") {
		t.Fatal("first request from client A rejected")
	}
	if rl.allow("192.0.2.1") {
		t.Error("second request from client A allowed")
	}
	if !rl.allow("192.0.2.2") {
		t.Error("client B limited by client A's usage")
	}
	if rl.limiterFor("192.0.2.1") != rl.limiterFor("192.0.2.1") {
		t.Error("client bucket not reused")
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := newRateLimiter(5, time.Minute)
	rl.stop()
	rl.stop()
}
