package chess

import (
	nchess "github.com/corentings/chess/v2"
	corechess "github.com/park285/chess-api/internal/chess"
)

var pieceTable = map[corechess.Piece]nchess.Piece{
	{Type: corechess.King, Color: corechess.White}:   nchess.WhiteKing,
	{Type: corechess.Queen, Color: corechess.White}:  nchess.WhiteQueen,
	{Type: corechess.Rook, Color: corechess.White}:   nchess.WhiteRook,
	{Type: corechess.Bishop, Color: corechess.White}: nchess.WhiteBishop,
	{Type: corechess.Knight, Color: corechess.White}: nchess.WhiteKnight,
	{Type: corechess.Pawn, Color: corechess.White}:   nchess.WhitePawn,
	{Type: corechess.King, Color: corechess.Black}:   nchess.BlackKing,
	{Type: corechess.Queen, Color: corechess.Black}:  nchess.BlackQueen,
	{Type: corechess.Rook, Color: corechess.Black}:   nchess.BlackRook,
	{Type: corechess.Bishop, Color: corechess.Black}: nchess.BlackBishop,
	{Type: corechess.Knight, Color: corechess.Black}: nchess.BlackKnight,
	{Type: corechess.Pawn, Color: corechess.Black}:   nchess.BlackPawn,
}

// toSquare maps engine coordinates onto algebraic squares: row 0 is rank 8
// and col 0 is the a-file.
func toSquare(sq corechess.Square) nchess.Square {
	return nchess.NewSquare(nchess.File(sq.Col), nchess.Rank(corechess.Size-1-sq.Row))
}

// toBoard converts an engine board for rendering and notation.
func toBoard(b *corechess.Board) *nchess.Board {
	squares := make(map[nchess.Square]nchess.Piece, 32)
	for row := 0; row < corechess.Size; row++ {
		for col := 0; col < corechess.Size; col++ {
			sq := corechess.Sq(row, col)
			p, ok := b.At(sq)
			if !ok {
				continue
			}
			squares[toSquare(sq)] = pieceTable[p]
		}
	}
	return nchess.NewBoard(squares)
}

// FEN returns the piece placement field of the board.
func FEN(b *corechess.Board) string {
	return toBoard(b).String()
}

// FullFEN appends the side to move. Castling and en passant do not exist in
// this ruleset, so those fields are always "-".
func FullFEN(g *corechess.Game) string {
	side := "w"
	if g.Turn == corechess.Black {
		side = "b"
	}
	return FEN(&g.Board) + " " + side + " - - 0 1"
}
