package chess

import "fmt"

// Color identifies a side. The zero value means "no color".
type Color string

const (
	NoColor Color = ""
	White   Color = "white"
	Black   Color = "black"
)

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

func (c Color) Valid() bool { return c == White || c == Black }

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return NoColor, fmt.Errorf("unknown color %q", s)
}

// forward is the row delta of a pawn advance: white moves toward row 0.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// pawnRank is the row a color's pawns start on.
func (c Color) pawnRank() int {
	if c == White {
		return 6
	}
	return 1
}

type PieceType string

const (
	Pawn   PieceType = "pawn"
	Rook   PieceType = "rook"
	Knight PieceType = "knight"
	Bishop PieceType = "bishop"
	Queen  PieceType = "queen"
	King   PieceType = "king"
)

// Piece is an immutable value. The zero Piece marks an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsZero() bool { return p.Type == "" }

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return string(p.Color) + " " + string(p.Type)
}

// Symbol returns the FEN letter of the piece: upper case for white.
func (p Piece) Symbol() rune {
	var r rune
	switch p.Type {
	case Pawn:
		r = 'p'
	case Rook:
		r = 'r'
	case Knight:
		r = 'n'
	case Bishop:
		r = 'b'
	case Queen:
		r = 'q'
	case King:
		r = 'k'
	default:
		return '.'
	}
	if p.Color == White {
		r -= 'a' - 'A'
	}
	return r
}

// Square is a (row, col) coordinate. Row 0 is black's back rank.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square { return Square{Row: row, Col: col} }

// Valid reports whether both coordinates lie in [0,7].
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

func (s Square) String() string { return fmt.Sprintf("(%d,%d)", s.Row, s.Col) }

// Move is a source/destination pair.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) String() string { return m.From.String() + "->" + m.To.String() }
