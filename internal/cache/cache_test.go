package cache

import (
	"sync"
	"testing"
	"time"
)

// fixedClock lets tests advance time without sleeping.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore() (*Store, *fixedClock) {
	clock := &fixedClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	s := New(DefaultTTL)
	s.now = clock.now
	return s, clock
}

func TestGet_Missing(t *testing.T) {
	s, _ := newTestStore()
	if _, ok := s.Get("nope"); ok {
		t.Fatal("missing key should be absent")
	}
}

func TestSetGet_WithinTTL(t *testing.T) {
	s, _ := newTestStore()
	s.Set("k", "v", 300*time.Second)
	v, ok := s.Get("k")
	if !ok || v != "v" {
		t.Fatalf("got (%v, %v), want (v, true)", v, ok)
	}
}

func TestGet_AfterExpiry(t *testing.T) {
	s, clock := newTestStore()
	s.Set("k", "v", 300*time.Second)

	clock.advance(300*time.Second + time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Fatal("expired entry should be absent")
	}
	// Lazy eviction removed it.
	if s.Stats().Size != 0 {
		t.Fatalf("size = %d after expired Get, want 0", s.Stats().Size)
	}
}

func TestSet_Overwrites(t *testing.T) {
	s, _ := newTestStore()
	s.Set("k", "old", time.Minute)
	s.Set("k", "new", time.Minute)
	v, _ := s.Get("k")
	if v != "new" {
		t.Fatalf("got %v, want new (last write wins)", v)
	}
}

func TestSet_DefaultTTL(t *testing.T) {
	s, clock := newTestStore()
	s.Set("k", "v", 0)

	clock.advance(DefaultTTL - time.Second)
	if _, ok := s.Get("k"); !ok {
		t.Fatal("entry should still be present within default TTL")
	}

	clock.advance(2 * time.Second)
	if _, ok := s.Get("k"); ok {
		t.Fatal("entry should expire after default TTL")
	}
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	s, clock := newTestStore()
	s.Set("short", 1, time.Minute)
	s.Set("long", 2, time.Hour)

	clock.advance(2 * time.Minute)

	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("swept %d, want 1", removed)
	}
	if _, ok := s.Get("long"); !ok {
		t.Fatal("unexpired entry must survive sweep")
	}
}

func TestDeleteAndClear(t *testing.T) {
	s, _ := newTestStore()
	s.Set("a", 1, time.Minute)
	s.Set("b", 2, time.Minute)

	if !s.Delete("a") {
		t.Fatal("delete of present key should report true")
	}
	if s.Delete("a") {
		t.Fatal("delete of absent key should report false")
	}

	s.Clear()
	if s.Stats().Size != 0 {
		t.Fatal("clear should empty the store")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := SearchKey("query", "video", n, "")
				s.Set(key, j, time.Minute)
				s.Get(key)
			}
		}(i)
	}
	wg.Wait()
}

func TestSearchKey_Deterministic(t *testing.T) {
	a := SearchKey("  Golang Tutorial ", "video", 25, "")
	b := SearchKey("golang tutorial", "video", 25, "")
	if a != b {
		t.Fatalf("normalized queries must share a key: %q vs %q", a, b)
	}
}

func TestSearchKey_NoCollisions(t *testing.T) {
	base := SearchKey("golang", "video", 25, "")
	variants := []string{
		SearchKey("golang", "channel", 25, ""),
		SearchKey("golang", "video", 50, ""),
		SearchKey("golang", "video", 25, "page2"),
		SearchKey("rust", "video", 25, ""),
	}
	for _, v := range variants {
		if v == base {
			t.Fatalf("distinct query dimensions must not collide: %q", v)
		}
	}
}
