package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUBasicOperations(t *testing.T) {
	c := NewLRU[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("expected a=1, got %q %v", v, ok)
	}

	// "a" was just used, so inserting "c" evicts "b".
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be present")
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be gone after delete")
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)
	c.Set("k", 42)

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should be a miss")
	}
	if n := c.CleanExpired(); n != 0 {
		// Get already evicted it.
		t.Errorf("expected nothing left to clean, got %d", n)
	}
}

func TestLRUCleanExpired(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 2 {
		t.Errorf("expected 2 cleaned, got %d", n)
	}
	if c.Size() != 0 {
		t.Errorf("expected empty cache, got size %d", c.Size())
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(4, time.Minute)
	defer s.Close()

	ctx := context.Background()
	s.Set(ctx, "k", []byte("payload"))

	data, ok := s.Get(ctx, "k")
	if !ok || string(data) != "payload" {
		t.Errorf("expected payload, got %q %v", data, ok)
	}

	s.Delete(ctx, "k")
	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("deleted key should miss")
	}
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore(4, time.Minute)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestKeyIsStableAndOrderSensitive(t *testing.T) {
	a := Key("2024-01-01", "2024-01-31", "monthly")
	b := Key("2024-01-01", "2024-01-31", "monthly")
	c := Key("2024-01-31", "2024-01-01", "monthly")

	if a != b {
		t.Error("same parts must produce the same key")
	}
	if a == c {
		t.Error("part order must matter")
	}
}
