package cache

import (
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	c := New(DefaultTTL)

	c.Set("k", "v")
	v, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit immediately after set")
	}
	if v != "v" {
		t.Errorf("expected v, got %v", v)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestExpiry(t *testing.T) {
	now := time.Now()
	c := New(5 * time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", 1)

	now = now.Add(4 * time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Error("expected hit inside the TTL window")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after the TTL window")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry evicted on access, len=%d", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New(DefaultTTL)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after clear")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after clear, len=%d", c.Len())
	}
}

func TestSetSweepsExpired(t *testing.T) {
	now := time.Now()
	c := New(5 * time.Minute)
	c.now = func() time.Time { return now }

	c.Set("old", 1)
	now = now.Add(6 * time.Minute)
	c.Set("new", 2)

	if c.Len() != 1 {
		t.Errorf("expected sweep to drop the expired entry, len=%d", c.Len())
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("expected fresh entry to survive the sweep")
	}
}
