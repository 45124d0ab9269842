package chess

import (
	"errors"
	"testing"
)

func TestIsPathClear(t *testing.T) {
	b := boardFrom(t,
		"........",
		"........",
		"........",
		"...p....",
		"........",
		"........",
		"........",
		"R......R",
	)
	tests := []struct {
		name     string
		from, to Square
		want     bool
	}{
		{"rank open", Sq(7, 0), Sq(7, 6), true},
		{"rank up to occupied endpoint", Sq(7, 0), Sq(7, 7), true},
		{"adjacent", Sq(7, 0), Sq(7, 1), true},
		{"file blocked", Sq(0, 3), Sq(7, 3), false},
		{"file stops before blocker", Sq(0, 3), Sq(3, 3), true},
		{"diagonal blocked", Sq(0, 0), Sq(4, 4), false},
		{"diagonal open", Sq(0, 7), Sq(6, 1), true},
		{"anti direction", Sq(6, 3), Sq(2, 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPathClear(&b, tt.from, tt.to); got != tt.want {
				t.Errorf("IsPathClear(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanAttack(t *testing.T) {
	b := boardFrom(t,
		"........",
		"........",
		"........",
		"........",
		"...N....",
		"........",
		"........",
		"........",
	)
	wp := Piece{Type: Pawn, Color: White}
	bp := Piece{Type: Pawn, Color: Black}
	tests := []struct {
		name     string
		piece    Piece
		from, to Square
		want     bool
	}{
		{"white pawn diagonal", wp, Sq(6, 4), Sq(5, 3), true},
		{"white pawn other diagonal", wp, Sq(6, 4), Sq(5, 5), true},
		{"white pawn straight", wp, Sq(6, 4), Sq(5, 4), false},
		{"white pawn backwards", wp, Sq(6, 4), Sq(7, 5), false},
		{"black pawn diagonal", bp, Sq(1, 4), Sq(2, 3), true},
		{"black pawn wrong way", bp, Sq(1, 4), Sq(0, 3), false},
		{"rook file", Piece{Type: Rook, Color: White}, Sq(7, 3), Sq(5, 3), true},
		{"rook through piece", Piece{Type: Rook, Color: White}, Sq(7, 3), Sq(2, 3), false},
		{"rook diagonal", Piece{Type: Rook, Color: White}, Sq(7, 0), Sq(6, 1), false},
		{"knight jump", Piece{Type: Knight, Color: White}, Sq(4, 3), Sq(2, 4), true},
		{"knight straight", Piece{Type: Knight, Color: White}, Sq(4, 3), Sq(2, 3), false},
		{"bishop diagonal", Piece{Type: Bishop, Color: Black}, Sq(0, 0), Sq(3, 3), true},
		{"bishop through piece", Piece{Type: Bishop, Color: Black}, Sq(6, 1), Sq(2, 5), false},
		{"queen file", Piece{Type: Queen, Color: Black}, Sq(0, 5), Sq(7, 5), true},
		{"queen diagonal", Piece{Type: Queen, Color: Black}, Sq(1, 0), Sq(3, 2), true},
		{"queen odd shape", Piece{Type: Queen, Color: Black}, Sq(0, 0), Sq(1, 2), false},
		{"king adjacent", Piece{Type: King, Color: White}, Sq(7, 4), Sq(6, 5), true},
		{"king two away", Piece{Type: King, Color: White}, Sq(7, 4), Sq(5, 4), false},
		{"off board", Piece{Type: King, Color: White}, Sq(7, 7), Sq(8, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAttack(&b, tt.piece, tt.from, tt.to); got != tt.want {
				t.Errorf("CanAttack(%v, %v, %v) = %v, want %v", tt.piece, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsSquareAttacked(t *testing.T) {
	b := NewBoard()
	if !IsSquareAttacked(&b, Sq(5, 4), White) {
		t.Errorf("(5,4) should be attacked by white pawns")
	}
	if IsSquareAttacked(&b, Sq(4, 4), White) {
		t.Errorf("(4,4) should not be attacked by white in the start position")
	}
	if !IsSquareAttacked(&b, Sq(2, 0), Black) {
		t.Errorf("(2,0) should be attacked by the black knight and pawn")
	}
	if IsSquareAttacked(&b, Sq(5, 4), Black) {
		t.Errorf("(5,4) should not be attacked by black")
	}
}

func TestIsKingInCheck(t *testing.T) {
	b := boardFrom(t,
		"....k...",
		"........",
		"........",
		"........",
		"....R...",
		"........",
		"........",
		"....K...",
	)
	check, err := IsKingInCheck(&b, Black)
	if err != nil || !check {
		t.Fatalf("IsKingInCheck(Black) = %v, %v; want true", check, err)
	}
	check, err = IsKingInCheck(&b, White)
	if err != nil || check {
		t.Fatalf("IsKingInCheck(White) = %v, %v; want false", check, err)
	}

	b.Set(Sq(2, 4), Piece{Type: Pawn, Color: Black})
	if check, _ := IsKingInCheck(&b, Black); check {
		t.Fatalf("blocked rook should not give check")
	}

	b.Clear(Sq(7, 4))
	if _, err := IsKingInCheck(&b, White); !errors.Is(err, ErrKingNotFound) {
		t.Fatalf("IsKingInCheck without king error = %v, want ErrKingNotFound", err)
	}
}
