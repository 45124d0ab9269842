package chess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/park285/chess-api/internal/domain"
)

type badgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository opens an embedded store under dir. An empty dir
// opens an in-memory database.
func NewBadgerRepository(dir string) (Repository, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &badgerRepository{db: db}, nil
}

func (r *badgerRepository) Insert(ctx context.Context, game *domain.ChessGame) error {
	if game == nil {
		return fmt.Errorf("nil chess game payload")
	}
	raw, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal chess game: %w", err)
	}
	key := []byte(gameKey(game.ID))

	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrDuplicateGame
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(key, raw)
	})
}

func (r *badgerRepository) Get(ctx context.Context, id string) (*domain.ChessGame, error) {
	var game *domain.ChessGame
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		game, err = loadGame(txn, []byte(gameKey(id)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// Update retries when badger reports a conflicting concurrent commit.
func (r *badgerRepository) Update(ctx context.Context, id string, fn func(*domain.ChessGame) error) (*domain.ChessGame, error) {
	key := []byte(gameKey(id))
	var out *domain.ChessGame

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := r.db.Update(func(txn *badger.Txn) error {
			cur, err := loadGame(txn, key)
			if err != nil {
				return err
			}
			if err := fn(cur); err != nil {
				return err
			}
			raw, err := json.Marshal(cur)
			if err != nil {
				return fmt.Errorf("marshal chess game: %w", err)
			}
			if err := txn.Set(key, raw); err != nil {
				return err
			}
			out = cur
			return nil
		})
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("update chess game %s: %w", id, badger.ErrConflict)
}

func (r *badgerRepository) Delete(ctx context.Context, id string) error {
	key := []byte(gameKey(id))
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrGameNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func (r *badgerRepository) Close() error { return r.db.Close() }

func loadGame(txn *badger.Txn, key []byte) (*domain.ChessGame, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var game *domain.ChessGame
	if err := item.Value(func(val []byte) error {
		var derr error
		game, derr = decodeGame(val)
		return derr
	}); err != nil {
		return nil, err
	}
	return game, nil
}
