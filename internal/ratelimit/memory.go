package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Memory keeps one window per key in process memory.
type Memory struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg.Normalize(),
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if ok && now.Sub(w.start) > m.cfg.Window {
		ok = false
	}
	if !ok {
		w = &window{start: now}
		m.windows[key] = w
	}

	if w.count >= m.cfg.MaxRequests {
		return Decision{
			Count:      w.count,
			RetryAfter: w.start.Add(m.cfg.Window).Sub(now),
		}, nil
	}
	w.count++
	return Decision{
		Allowed:   true,
		Count:     w.count,
		Remaining: m.cfg.MaxRequests - w.count,
	}, nil
}

// Cleanup drops windows that have expired and returns how many were removed.
func (m *Memory) Cleanup() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, w := range m.windows {
		if now.Sub(w.start) > m.cfg.Window {
			delete(m.windows, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.cfg.Window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
