package chessbuilder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/park285/chess-api/internal/config"
	"github.com/park285/chess-api/internal/msgcat"
	"github.com/park285/chess-api/internal/ratelimit"
	svcchess "github.com/park285/chess-api/internal/service/chess"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deps struct {
	Service  *svcchess.Service
	Repo     svcchess.Repository
	Notifier svcchess.Notifier
	Limiter  ratelimit.Limiter
	Catalog  *msgcat.Catalog

	// MemoryLimiter is set when the limiter keeps its windows in process
	// and needs periodic cleanup.
	MemoryLimiter *ratelimit.Memory

	redis *redis.Client
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Deps{}
	ok := false
	defer func() {
		if !ok {
			_ = d.Close()
		}
	}()

	// Redis (shared by store, notifier and limiter)
	if cfg.Store == config.StoreRedis || cfg.Notifier == config.StoreRedis || cfg.RateLimitStore == config.StoreRedis {
		rdb, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		d.redis = rdb
	}

	repo, err := newRepository(ctx, cfg, d.redis)
	if err != nil {
		return nil, err
	}
	d.Repo = repo

	switch cfg.Notifier {
	case config.StoreRedis:
		d.Notifier = svcchess.NewRedisNotifier(d.redis)
	default:
		d.Notifier = svcchess.NewMemoryNotifier()
	}

	rlCfg := ratelimit.Config{Window: cfg.RateLimitWindow(), MaxRequests: cfg.RateLimitMax}
	switch cfg.RateLimitStore {
	case config.StoreRedis:
		d.Limiter = ratelimit.NewRedis(d.redis, rlCfg)
	default:
		d.MemoryLimiter = ratelimit.NewMemory(rlCfg)
		d.Limiter = d.MemoryLimiter
	}

	d.Catalog, err = msgcat.New(cfg.MsgTemplateDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	d.Service, err = svcchess.NewService(repo, svcchess.NewSVGBoardRenderer(), d.Notifier, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("chess_deps_ready",
		zap.String("store", cfg.Store),
		zap.String("notifier", cfg.Notifier),
		zap.String("rate_limit_store", cfg.RateLimitStore),
	)
	ok = true
	return d, nil
}

func newRepository(ctx context.Context, cfg *config.AppConfig, rdb *redis.Client) (svcchess.Repository, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return svcchess.NewMemoryRepository(), nil
	case config.StoreRedis:
		return svcchess.NewRedisRepository(rdb, cfg.GameTTL()), nil
	case config.StoreBadger:
		repo, err := svcchess.NewBadgerRepository(cfg.BadgerDir)
		if err != nil {
			return nil, fmt.Errorf("open badger: %w", err)
		}
		return repo, nil
	case config.StorePostgres:
		db, err := OpenPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		if err := svcchess.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return svcchess.NewRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// OpenRedis parses a redis:// or rediss:// URL and checks the server answers.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// OpenPostgres opens a pooled connection and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	// basic pool settings
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Close releases the store and the shared Redis client.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Repo != nil {
		if err := d.Repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close repository: %w", err))
		}
	}
	if d.redis != nil {
		// The Redis repository closes the client itself.
		if err := d.redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
