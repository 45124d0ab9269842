package chess

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	redisEventChannelPrefix = "chess:events:"
	subscriberBuffer        = 8
)

// Notifier fans out encoded game states to watchers of a game.
// The returned cancel func releases the subscription and closes the channel.
type Notifier interface {
	Publish(ctx context.Context, id string, payload []byte) error
	Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error)
}

// MemoryNotifier is a process-local hub. Slow subscribers miss updates
// rather than block publishers.
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[string]map[chan []byte]struct{})}
}

func (n *MemoryNotifier) Publish(ctx context.Context, id string, payload []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs[id] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, subscriberBuffer)

	n.mu.Lock()
	set, ok := n.subs[id]
	if !ok {
		set = make(map[chan []byte]struct{})
		n.subs[id] = set
	}
	set[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[id], ch)
			if len(n.subs[id]) == 0 {
				delete(n.subs, id)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

// RedisNotifier publishes on chess:events:<id> so watchers connected to any
// instance see every move.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func eventChannel(id string) string { return redisEventChannelPrefix + strings.TrimSpace(id) }

func (n *RedisNotifier) Publish(ctx context.Context, id string, payload []byte) error {
	if err := n.rdb.Publish(ctx, eventChannel(id), payload).Err(); err != nil {
		return fmt.Errorf("publish chess event: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	ps := n.rdb.Subscribe(ctx, eventChannel(id))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe chess events: %w", err)
	}

	out := make(chan []byte, subscriberBuffer)
	msgs := ps.Channel()
	go func() {
		defer close(out)
		for msg := range msgs {
			select {
			case out <- []byte(msg.Payload):
			default:
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = ps.Close() })
	}
	return out, cancel, nil
}
