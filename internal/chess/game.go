package chess

// Game is one match: a board, the side to move and the terminal state.
// A Game is not safe for concurrent use; callers serialize access per game.
type Game struct {
	ID       string `json:"game_id"`
	Board    Board  `json:"board"`
	Turn     Color  `json:"turn"`
	GameOver bool   `json:"game_over"`
	Winner   Color  `json:"winner,omitempty"`
}

// MoveResult describes the game after a successful MakeMove.
type MoveResult struct {
	GameOver bool
	Winner   Color
}

// NewGame returns a game in the starting position with white to move.
func NewGame(id string) *Game {
	return &Game{ID: id, Board: NewBoard(), Turn: White}
}

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	return &c
}

// IsLegalMove checks, in order: both squares on the board, a piece on
// from, that piece belongs to the side to move, no capture of an own piece,
// and the piece's movement rule. It does not forbid leaving the own king
// in check.
func (g *Game) IsLegalMove(from, to Square) bool {
	return legalFor(&g.Board, g.Turn, from, to)
}

// MakeMove validates and applies a move. Capturing a king ends the game
// and the turn is not switched; otherwise the turn passes to the opponent.
func (g *Game) MakeMove(from, to Square) (MoveResult, error) {
	if _, ok := g.Board.At(from); !ok {
		return MoveResult{}, ErrNoPieceAtSource
	}
	if !g.IsLegalMove(from, to) {
		return MoveResult{}, ErrIllegalMove
	}

	g.Board.relocate(from, to)

	whiteKing, blackKing := g.Board.HasKing(White), g.Board.HasKing(Black)
	if !whiteKing || !blackKing {
		g.GameOver = true
		switch {
		case whiteKing:
			g.Winner = White
		case blackKing:
			g.Winner = Black
		}
		return MoveResult{GameOver: true, Winner: g.Winner}, nil
	}

	g.Turn = g.Turn.Opponent()
	return MoveResult{}, nil
}

// IsCheckmate reports whether color is in check with no escaping move.
// Every move color could legally make is tried on a scratch board; the
// game itself is never modified. Candidate moves are judged as if color
// were to move, whatever g.Turn says.
func (g *Game) IsCheckmate(color Color) (bool, error) {
	inCheck, err := IsKingInCheck(&g.Board, color)
	if err != nil || !inCheck {
		return false, err
	}
	for _, from := range g.Board.Pieces(color) {
		for row := 0; row < Size; row++ {
			for col := 0; col < Size; col++ {
				to := Square{Row: row, Col: col}
				if !legalFor(&g.Board, color, from, to) {
					continue
				}
				if escapes(&g.Board, color, from, to) {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

// escapes simulates from->to on a copy and reports whether color's king is
// then out of check.
func escapes(b *Board, color Color, from, to Square) bool {
	next := b.WithMove(from, to)
	inCheck, err := IsKingInCheck(&next, color)
	return err == nil && !inCheck
}

// InCheck is IsKingInCheck on the game's board.
func (g *Game) InCheck(color Color) (bool, error) {
	return IsKingInCheck(&g.Board, color)
}

// LegalMoves lists every destination the piece on from may reach for the
// side to move.
func (g *Game) LegalMoves(from Square) []Square {
	var out []Square
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			to := Square{Row: row, Col: col}
			if g.IsLegalMove(from, to) {
				out = append(out, to)
			}
		}
	}
	return out
}
