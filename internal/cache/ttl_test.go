package cache

import (
	"testing"
	"time"
)

func TestTTLSetGet(t *testing.T) {
	c := NewTTL[int](time.Minute)
	if _, ok := c.Get(); ok {
		t.Fatalf("expected miss on fresh cache")
	}
	c.Set(42)
	v, ok := c.Get()
	if !ok || v != 42 {
		t.Fatalf("expected hit with 42, got %d ok=%v", v, ok)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[string](10 * time.Millisecond)
	c.Set("x")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(); ok {
		t.Fatalf("expected expiry")
	}
}

func TestTTLInvalidate(t *testing.T) {
	c := NewTTL[string](time.Minute)
	c.Set("x")
	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Fatalf("expected miss after invalidate")
	}
}
