package domain

import (
	"time"

	"github.com/park285/chess-api/internal/chess"
)

// ChessGame is the persisted form of a game: the engine state plus
// bookkeeping the engine does not track.
type ChessGame struct {
	chess.Game

	MoveCount int         `json:"move_count"`
	LastMove  *chess.Move `json:"last_move,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewChessGame wraps a fresh engine game started at now.
func NewChessGame(id string, now time.Time) *ChessGame {
	return &ChessGame{
		Game:      *chess.NewGame(id),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy; the board is copied by value.
func (g *ChessGame) Clone() *ChessGame {
	if g == nil {
		return nil
	}
	c := *g
	if g.LastMove != nil {
		mv := *g.LastMove
		c.LastMove = &mv
	}
	return &c
}

// ChessStatus answers a check/checkmate query for one color.
type ChessStatus struct {
	GameID    string
	Color     chess.Color
	Turn      chess.Color
	Check     bool
	Checkmate bool
	GameOver  bool
	Winner    chess.Color
}
