package chess

import (
	"context"
	"sync"

	"github.com/park285/chess-api/internal/domain"
)

// memrepo is a development-only in-memory repository used when no store is configured.
type memrepo struct {
	mu    sync.Mutex
	games map[string]*domain.ChessGame
}

func NewMemoryRepository() Repository {
	return &memrepo{games: make(map[string]*domain.ChessGame)}
}

func (m *memrepo) Insert(ctx context.Context, game *domain.ChessGame) error {
	if game == nil {
		return ErrDuplicateGame
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[game.ID]; exists {
		return ErrDuplicateGame
	}
	m.games[game.ID] = game.Clone()
	return nil
}

func (m *memrepo) Get(ctx context.Context, id string) (*domain.ChessGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return game.Clone(), nil
}

// Update holds the repository lock for the whole of fn, which serialises
// moves across every game. Fine for development.
func (m *memrepo) Update(ctx context.Context, id string, fn func(*domain.ChessGame) error) (*domain.ChessGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	work := stored.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	m.games[id] = work
	return work.Clone(), nil
}

func (m *memrepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *memrepo) Close() error { return nil }
