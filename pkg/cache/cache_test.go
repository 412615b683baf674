package cache

import (
	"testing"
	"time"
)

func TestTimed(t *testing.T) {
	c := NewTimed(5 * time.Minute)

	tstart := time.Now()

	c.set("key", []byte("value"), tstart)

	_, ok := c.get("key", tstart.Add(time.Minute))
	if !ok {
		t.Errorf("failed to get key that should not be expired")
	}

	_, ok = c.get("key", tstart.Add(10*time.Minute))
	if ok {
		t.Errorf("succeeded in getting expired key")
	}

	_, ok = c.get("key", tstart.Add(time.Minute))
	if ok {
		t.Errorf("succeeded in getting key that was previously evicted")
	}
}

func TestPrune(t *testing.T) {
	c := NewTimed(time.Hour)

	tstart := time.Now()
	c.set("old", []byte("a"), tstart)
	c.set("new", []byte("b"), tstart.Add(2*time.Hour))

	c.prune(tstart.Add(3 * time.Hour))

	if _, ok := c.get("old", tstart.Add(3*time.Hour)); ok {
		t.Errorf("pruned key should be gone")
	}
	if _, ok := c.get("new", tstart.Add(2*time.Hour+time.Minute)); !ok {
		t.Errorf("fresh key should survive pruning")
	}
}

func TestDayKey(t *testing.T) {
	got := DayKey("tides", "PORNICHET", "2026-08-25")
	want := "tides/PORNICHET/2026-08-25"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
