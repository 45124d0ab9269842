package chess

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size is the number of rows and columns of the board.
const Size = 8

var backRank = [Size]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is an 8x8 grid of pieces. It has value semantics: assigning a
// Board copies every square, so copies never alias each other.
type Board struct {
	squares [Size][Size]Piece
}

// NewBoard returns the standard starting position. Black occupies rows 0
// and 1, white rows 6 and 7.
func NewBoard() Board {
	var b Board
	for col := 0; col < Size; col++ {
		b.squares[0][col] = Piece{Type: backRank[col], Color: Black}
		b.squares[1][col] = Piece{Type: Pawn, Color: Black}
		b.squares[6][col] = Piece{Type: Pawn, Color: White}
		b.squares[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return b
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() Board { return *b }

// At returns the piece on sq and whether the square is occupied.
// Off-board squares read as empty.
func (b *Board) At(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	p := b.squares[sq.Row][sq.Col]
	return p, !p.IsZero()
}

func (b *Board) occupied(sq Square) bool {
	_, ok := b.At(sq)
	return ok
}

// Set places p on sq, replacing any occupant.
func (b *Board) Set(sq Square, p Piece) {
	if sq.Valid() {
		b.squares[sq.Row][sq.Col] = p
	}
}

// Clear empties sq.
func (b *Board) Clear(sq Square) { b.Set(sq, Piece{}) }

// WithMove returns a copy of the board with the piece on from relocated to
// to. The receiver is left untouched.
func (b *Board) WithMove(from, to Square) Board {
	next := *b
	next.relocate(from, to)
	return next
}

func (b *Board) relocate(from, to Square) {
	p, _ := b.At(from)
	b.Set(to, p)
	b.Clear(from)
}

// KingSquare scans the board for the king of color.
func (b *Board) KingSquare(color Color) (Square, error) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p.Type == King && p.Color == color {
				return Square{Row: row, Col: col}, nil
			}
		}
	}
	return Square{}, fmt.Errorf("%w: %s", ErrKingNotFound, color)
}

func (b *Board) HasKing(color Color) bool {
	_, err := b.KingSquare(color)
	return err == nil
}

// Count returns the number of pieces of color on the board.
func (b *Board) Count(color Color) int {
	n := 0
	b.each(func(_ Square, p Piece) {
		if p.Color == color {
			n++
		}
	})
	return n
}

// Pieces returns every occupied square of color in row-major order.
func (b *Board) Pieces(color Color) []Square {
	var out []Square
	b.each(func(sq Square, p Piece) {
		if p.Color == color {
			out = append(out, sq)
		}
	})
	return out
}

func (b *Board) each(fn func(Square, Piece)) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; !p.IsZero() {
				fn(Square{Row: row, Col: col}, p)
			}
		}
	}
}

// String draws the board with FEN letters, row 0 first.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			sb.WriteRune(b.squares[row][col].Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MarshalJSON encodes the board as 8 rows of 8 cells, each null or a piece.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for row := 0; row < Size; row++ {
		rows[row] = make([]*Piece, Size)
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; !p.IsZero() {
				rows[row][col] = &p
			}
		}
	}
	return json.Marshal(rows)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != Size {
		return fmt.Errorf("board: want %d rows, got %d", Size, len(rows))
	}
	var next Board
	for row, cells := range rows {
		if len(cells) != Size {
			return fmt.Errorf("board: row %d: want %d cells, got %d", row, Size, len(cells))
		}
		for col, p := range cells {
			if p == nil {
				continue
			}
			if err := p.validate(); err != nil {
				return fmt.Errorf("board: (%d,%d): %w", row, col, err)
			}
			next.squares[row][col] = *p
		}
	}
	*b = next
	return nil
}

func (p Piece) validate() error {
	switch p.Type {
	case Pawn, Rook, Knight, Bishop, Queen, King:
	default:
		return fmt.Errorf("unknown piece type %q", p.Type)
	}
	if !p.Color.Valid() {
		return fmt.Errorf("unknown piece color %q", p.Color)
	}
	return nil
}
