package chess

import (
	"testing"

	nchess "github.com/corentings/chess/v2"
	corechess "github.com/park285/chess-api/internal/chess"
)

func TestFENStartPositionMatchesStandard(t *testing.T) {
	b := corechess.NewBoard()
	want := nchess.NewGame().Position().Board().String()
	if got := FEN(&b); got != want {
		t.Fatalf("FEN(start) = %q, want %q", got, want)
	}
}

func TestFENAfterMoves(t *testing.T) {
	g := corechess.NewGame("fen")
	if _, err := g.MakeMove(corechess.Sq(6, 4), corechess.Sq(4, 4)); err != nil {
		t.Fatalf("MakeMove e4: %v", err)
	}
	if got, want := FullFEN(g), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1"; got != want {
		t.Fatalf("FullFEN after e4 = %q, want %q", got, want)
	}

	if _, err := g.MakeMove(corechess.Sq(0, 6), corechess.Sq(2, 5)); err != nil {
		t.Fatalf("MakeMove Nf6: %v", err)
	}
	if got, want := FEN(&g.Board), "rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR"; got != want {
		t.Fatalf("FEN after Nf6 = %q, want %q", got, want)
	}
}

func TestToSquareOrientation(t *testing.T) {
	cases := map[corechess.Square]nchess.Square{
		corechess.Sq(0, 0): nchess.A8,
		corechess.Sq(7, 0): nchess.A1,
		corechess.Sq(7, 4): nchess.E1,
		corechess.Sq(0, 7): nchess.H8,
	}
	for in, want := range cases {
		if got := toSquare(in); got != want {
			t.Errorf("toSquare(%v) = %v, want %v", in, got, want)
		}
	}
}
