package chess

var knightOffsets = [8]Square{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func deltas(from, to Square) (dr, dc int) { return to.Row - from.Row, to.Col - from.Col }

func straightLine(dr, dc int) bool { return dr == 0 || dc == 0 }

func diagonalLine(dr, dc int) bool { return abs(dr) == abs(dc) }

func knightJump(dr, dc int) bool {
	for _, o := range knightOffsets {
		if o.Row == dr && o.Col == dc {
			return true
		}
	}
	return false
}

// IsPathClear reports whether every square strictly between from and to is
// empty. from and to must share a rank, file or diagonal.
func IsPathClear(b *Board, from, to Square) bool {
	dr, dc := deltas(from, to)
	step := Square{Row: sign(dr), Col: sign(dc)}
	cur := Square{Row: from.Row + step.Row, Col: from.Col + step.Col}
	for cur != to {
		if !cur.Valid() {
			return false
		}
		if b.occupied(cur) {
			return false
		}
		cur.Row += step.Row
		cur.Col += step.Col
	}
	return true
}

// CanAttack reports whether piece, standing on from, attacks to. Turn and
// the occupant of to are ignored. Pawns attack only their two forward
// diagonals.
func CanAttack(b *Board, piece Piece, from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	dr, dc := deltas(from, to)
	switch piece.Type {
	case Pawn:
		return dr == piece.Color.forward() && abs(dc) == 1
	case Rook:
		return straightLine(dr, dc) && IsPathClear(b, from, to)
	case Knight:
		return knightJump(dr, dc)
	case Bishop:
		return diagonalLine(dr, dc) && IsPathClear(b, from, to)
	case Queen:
		return (straightLine(dr, dc) || diagonalLine(dr, dc)) && IsPathClear(b, from, to)
	case King:
		return abs(dr) <= 1 && abs(dc) <= 1
	}
	return false
}

// IsSquareAttacked reports whether any piece of byColor attacks sq.
func IsSquareAttacked(b *Board, sq Square, byColor Color) bool {
	attacked := false
	b.each(func(from Square, p Piece) {
		if attacked || p.Color != byColor || from == sq {
			return
		}
		attacked = CanAttack(b, p, from, sq)
	})
	return attacked
}

// IsKingInCheck reports whether color's king stands on a square attacked by
// the opponent. It fails with ErrKingNotFound once that king was captured.
func IsKingInCheck(b *Board, color Color) (bool, error) {
	sq, err := b.KingSquare(color)
	if err != nil {
		return false, err
	}
	return IsSquareAttacked(b, sq, color.Opponent()), nil
}

// legalFor runs the ordered legality checks as if mover were to play.
// Moves that leave the mover's own king attacked are not rejected here.
func legalFor(b *Board, mover Color, from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	piece, ok := b.At(from)
	if !ok || piece.Color != mover {
		return false
	}
	target, occupied := b.At(to)
	if occupied && target.Color == piece.Color {
		return false
	}

	dr, dc := deltas(from, to)
	switch piece.Type {
	case Pawn:
		dir := piece.Color.forward()
		switch {
		case dc == 0 && dr == dir:
			return !occupied
		case dc == 0 && dr == 2*dir && from.Row == piece.Color.pawnRank():
			mid := Square{Row: from.Row + dir, Col: from.Col}
			return !b.occupied(mid) && !occupied
		case abs(dc) == 1 && dr == dir:
			return occupied
		}
		return false
	case Rook:
		return straightLine(dr, dc) && IsPathClear(b, from, to)
	case Knight:
		return knightJump(dr, dc)
	case Bishop:
		return diagonalLine(dr, dc) && IsPathClear(b, from, to)
	case Queen:
		return (straightLine(dr, dc) || diagonalLine(dr, dc)) && IsPathClear(b, from, to)
	case King:
		return abs(dr) <= 1 && abs(dc) <= 1
	}
	return false
}
