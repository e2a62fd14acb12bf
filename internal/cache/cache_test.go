package cache

import (
	"errors"
	"testing"
	"time"
)

func TestMemoGetOrFill(t *testing.T) {
	m := NewMemo[int]()
	calls := 0
	fill := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := m.GetOrFill("k", fill)
	if err != nil || v != 42 {
		t.Fatalf("first fill: got %d, %v", v, err)
	}
	v, err = m.GetOrFill("k", fill)
	if err != nil || v != 42 {
		t.Fatalf("second fill: got %d, %v", v, err)
	}
	if calls != 1 {
		t.Fatalf("fill called %d times, want 1", calls)
	}
}

func TestMemoFillErrorNotCached(t *testing.T) {
	m := NewMemo[int]()
	calls := 0
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if _, err := m.GetOrFill("k", func() (int, error) { calls++; return 0, boom }); err != boom {
			t.Fatalf("expected fill error, got %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("fill called %d times, want 2 (errors must not be cached)", calls)
	}
	if m.Size() != 0 {
		t.Fatalf("size: got %d, want 0", m.Size())
	}
}

func TestMemoNoEviction(t *testing.T) {
	m := NewMemo[int]()
	for i := 0; i < 500; i++ {
		m.Set(string(rune('a'+i%26))+string(rune('0'+i/26)), i)
	}
	if m.Size() == 0 {
		t.Fatalf("expected entries to survive")
	}
	before := m.Size()
	for i := 0; i < 100; i++ {
		m.Get("zz")
	}
	if m.Size() != before {
		t.Fatalf("size changed on reads: %d -> %d", before, m.Size())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3") // evicts a

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be evicted")
	}
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Fatalf("expected c present, got %q %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size: got %d, want 2", c.Size())
	}
}

func TestLRUTTL(t *testing.T) {
	c := NewLRU[string](10, 10*time.Millisecond)
	c.Set("a", "1")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be expired")
	}
	c.Set("b", "2")
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("cleaned %d, want 1", n)
	}
}
