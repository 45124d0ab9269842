package chesspresenter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	corechess "github.com/park285/chess-api/internal/chess"
	"github.com/park285/chess-api/internal/domain"
	"github.com/park285/chess-api/pkg/chessdto"
)

func TestToDTOState(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := domain.NewChessGame("g-1", now)
	if _, err := g.MakeMove(corechess.Sq(6, 4), corechess.Sq(4, 4)); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	g.MoveCount = 1
	g.LastMove = &corechess.Move{From: corechess.Sq(6, 4), To: corechess.Sq(4, 4)}

	got := ToDTOState(g)
	if got.GameID != "g-1" || got.Turn != "black" || got.MoveCount != 1 {
		t.Fatalf("state = %+v", got)
	}
	if got.FEN != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1" {
		t.Fatalf("fen = %q", got.FEN)
	}
	wantLast := &chessdto.LastMove{From: chessdto.Square{Row: 6, Col: 4}, To: chessdto.Square{Row: 4, Col: 4}}
	if diff := cmp.Diff(wantLast, got.LastMove); diff != "" {
		t.Fatalf("last move (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&chessdto.Piece{Type: "pawn", Color: "white"}, got.Board[4][4]); diff != "" {
		t.Fatalf("board[4][4] (-want +got):\n%s", diff)
	}
	if got.Board[6][4] != nil {
		t.Fatalf("board[6][4] = %+v, want empty", got.Board[6][4])
	}
	if ToDTOState(nil) != nil {
		t.Fatalf("nil game should map to nil")
	}
}

func TestToDTOStatus(t *testing.T) {
	got := ToDTOStatus(&domain.ChessStatus{GameID: "g", Color: corechess.Black, Turn: corechess.White, Check: true})
	want := &chessdto.StatusResponse{GameID: "g", Color: "black", Turn: "white", Check: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("status (-want +got):\n%s", diff)
	}
}
