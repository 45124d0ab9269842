package chess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/chess-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	redisGameKeyPrefix = "chess:game:"
	maxUpdateAttempts  = 5
)

type redisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepository stores each game as a JSON blob with a sliding TTL.
// A ttl of zero keeps games forever.
func NewRedisRepository(rdb *redis.Client, ttl time.Duration) Repository {
	return &redisRepository{rdb: rdb, ttl: ttl}
}

func gameKey(id string) string { return redisGameKeyPrefix + strings.TrimSpace(id) }

func (r *redisRepository) Insert(ctx context.Context, game *domain.ChessGame) error {
	if game == nil {
		return fmt.Errorf("nil chess game payload")
	}
	raw, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal chess game: %w", err)
	}
	ok, err := r.rdb.SetNX(ctx, gameKey(game.ID), raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("insert chess game: %w", err)
	}
	if !ok {
		return ErrDuplicateGame
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, id string) (*domain.ChessGame, error) {
	raw, err := r.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load chess game: %w", err)
	}
	return decodeGame(raw)
}

// Update applies fn under WATCH/MULTI and retries when another writer
// touched the key between the read and the commit.
func (r *redisRepository) Update(ctx context.Context, id string, fn func(*domain.ChessGame) error) (*domain.ChessGame, error) {
	key := gameKey(id)
	var out *domain.ChessGame

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}
		cur, err := decodeGame(raw)
		if err != nil {
			return err
		}
		if err := fn(cur); err != nil {
			return err
		}
		newRaw, err := json.Marshal(cur)
		if err != nil {
			return fmt.Errorf("marshal chess game: %w", err)
		}

		pipe := tx.TxPipeline()
		pipe.Set(ctx, key, newRaw, r.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		out = cur
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("update chess game %s: %w", id, redis.TxFailedErr)
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete chess game: %w", err)
	}
	if n == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *redisRepository) Close() error { return r.rdb.Close() }

func decodeGame(raw []byte) (*domain.ChessGame, error) {
	var game domain.ChessGame
	if err := json.Unmarshal(raw, &game); err != nil {
		return nil, fmt.Errorf("unmarshal chess game: %w", err)
	}
	return &game, nil
}
