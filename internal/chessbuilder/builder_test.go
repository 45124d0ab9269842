package chessbuilder

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/park285/chess-api/internal/config"
	svcchess "github.com/park285/chess-api/internal/service/chess"
)

func baseConfig() *config.AppConfig {
	return &config.AppConfig{
		Port:               8000,
		Store:              config.StoreMemory,
		Notifier:           config.StoreMemory,
		RateLimitStore:     config.StoreMemory,
		GameTTLSec:         60,
		RateLimitWindowSec: 60,
		RateLimitMax:       10,
		MaxBodyBytes:       1 << 20,
	}
}

func TestNewMemory(t *testing.T) {
	ctx := context.Background()
	d, err := New(ctx, baseConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	if d.MemoryLimiter == nil || d.Limiter == nil {
		t.Fatalf("memory limiter not wired")
	}
	if _, ok := d.Notifier.(*svcchess.MemoryNotifier); !ok {
		t.Fatalf("notifier = %T", d.Notifier)
	}
	game, err := d.Service.CreateGame(ctx)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := d.Repo.Get(ctx, game.ID); err != nil {
		t.Fatalf("repo does not back the service: %v", err)
	}
	if got := d.Catalog.Text("errors.game_not_found", nil, ""); got != "Game not found" {
		t.Fatalf("catalog = %q", got)
	}
}

func TestNewRedisEverywhere(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	cfg := baseConfig()
	cfg.Store = config.StoreRedis
	cfg.Notifier = config.StoreRedis
	cfg.RateLimitStore = config.StoreRedis
	cfg.RedisURL = "redis://" + mr.Addr() + "/0"

	ctx := context.Background()
	d, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.MemoryLimiter != nil {
		t.Fatalf("redis config should not build a memory limiter")
	}
	if _, ok := d.Notifier.(*svcchess.RedisNotifier); !ok {
		t.Fatalf("notifier = %T", d.Notifier)
	}

	game, err := d.Service.CreateGame(ctx)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if !mr.Exists("chess:game:" + game.ID) {
		t.Fatalf("game not stored in redis")
	}
	if dec, err := d.Limiter.Allow(ctx, "1.2.3.4"); err != nil || !dec.Allowed {
		t.Fatalf("Allow = %+v, %v", dec, err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewBadgerInMemory(t *testing.T) {
	cfg := baseConfig()
	cfg.Store = config.StoreBadger
	d, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	if _, err := d.Service.CreateGame(context.Background()); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	cfg := baseConfig()
	cfg.Store = "cassandra"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unknown store")
	}
	cfg = baseConfig()
	cfg.Notifier = config.StoreRedis
	cfg.RedisURL = "http://not-redis"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for bad redis url")
	}
}
