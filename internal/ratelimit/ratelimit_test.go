package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestConfigNormalize(t *testing.T) {
	got := Config{}.Normalize()
	if got.Window != time.Minute || got.MaxRequests != 100 {
		t.Fatalf("Normalize() = %+v", got)
	}
	got = Config{Window: time.Second, MaxRequests: 3}.Normalize()
	if got.Window != time.Second || got.MaxRequests != 3 {
		t.Fatalf("Normalize kept custom values wrong: %+v", got)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	cases := []struct {
		d    Decision
		want int
	}{
		{Decision{Allowed: true, RetryAfter: time.Minute}, 0},
		{Decision{RetryAfter: 1500 * time.Millisecond}, 2},
		{Decision{RetryAfter: 59 * time.Second}, 59},
		{Decision{RetryAfter: 0}, 1},
	}
	for _, c := range cases {
		if got := c.d.RetryAfterSeconds(); got != c.want {
			t.Errorf("RetryAfterSeconds(%+v) = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestMemoryFixedWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{Window: time.Minute, MaxRequests: 3})
	m.now = clock.now
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, _ := m.Allow(ctx, "1.2.3.4")
		if !d.Allowed || d.Count != i || d.Remaining != 3-i {
			t.Fatalf("request %d: %+v", i, d)
		}
	}

	clock.advance(20 * time.Second)
	d, _ := m.Allow(ctx, "1.2.3.4")
	if d.Allowed {
		t.Fatalf("fourth request allowed: %+v", d)
	}
	if d.RetryAfter != 40*time.Second || d.RetryAfterSeconds() != 40 {
		t.Fatalf("RetryAfter = %v", d.RetryAfter)
	}

	if d, _ := m.Allow(ctx, "5.6.7.8"); !d.Allowed {
		t.Fatalf("other client limited: %+v", d)
	}

	clock.advance(41 * time.Second)
	if d, _ := m.Allow(ctx, "1.2.3.4"); !d.Allowed || d.Count != 1 {
		t.Fatalf("new window not opened: %+v", d)
	}
}

func TestMemoryCleanup(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(Config{Window: time.Minute, MaxRequests: 10})
	m.now = clock.now
	ctx := context.Background()

	_, _ = m.Allow(ctx, "a")
	clock.advance(30 * time.Second)
	_, _ = m.Allow(ctx, "b")
	clock.advance(31 * time.Second)

	if removed := m.Cleanup(); removed != 1 {
		t.Fatalf("Cleanup removed %d, want 1", removed)
	}
	if m.size() != 1 {
		t.Fatalf("size after cleanup = %d, want 1", m.size())
	}
}

func TestRedisFixedWindow(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l := NewRedis(rdb, Config{Window: time.Minute, MaxRequests: 2})
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow %d: %v", i, err)
		}
		if !d.Allowed || d.Count != i {
			t.Fatalf("request %d: %+v", i, d)
		}
	}
	if ttl := mr.TTL("chess:ratelimit:1.2.3.4"); ttl != time.Minute {
		t.Fatalf("window TTL = %v, want 1m", ttl)
	}

	d, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if d.Allowed || d.RetryAfterSeconds() != 60 {
		t.Fatalf("third request: %+v", d)
	}

	mr.FastForward(61 * time.Second)
	if d, _ := l.Allow(ctx, "1.2.3.4"); !d.Allowed || d.Count != 1 {
		t.Fatalf("window did not reset: %+v", d)
	}
}
