package ratelimit

import (
	"testing"
	"time"
)

func TestAllow_UpToMax(t *testing.T) {
	l := New(time.Second, 40)

	for i := 0; i < 40; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d denied, want first 40 allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("41st request allowed, want denied")
	}
}

func TestAllow_PerIPIsolation(t *testing.T) {
	l := New(time.Second, 1)

	if !l.Allow("a") {
		t.Error("first request from a denied")
	}
	if l.Allow("a") {
		t.Error("second request from a allowed")
	}
	if !l.Allow("b") {
		t.Error("request from b denied, limits must be per-IP")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(time.Second, 2)
	l.now = func() time.Time { return now }

	l.Allow("ip")
	l.Allow("ip")
	if l.Allow("ip") {
		t.Error("over-limit request allowed")
	}

	now = now.Add(1100 * time.Millisecond)
	if !l.Allow("ip") {
		t.Error("request after window elapsed denied, want fresh window")
	}
}

func TestSweep_EvictsIdleEntries(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(time.Second, 40)
	l.now = func() time.Time { return now }

	l.Allow("stale")
	now = now.Add(5 * time.Second)
	l.Allow("fresh")

	now = now.Add(6 * time.Second) // stale is now 11s old, fresh 6s
	l.Sweep()

	if l.Len() != 1 {
		t.Errorf("Len = %d after sweep, want 1", l.Len())
	}
	// The swept IP starts over with a clean window.
	if !l.Allow("stale") {
		t.Error("request from swept IP denied")
	}
}
