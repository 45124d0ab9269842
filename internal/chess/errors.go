package chess

type staticErr string

func (e staticErr) Error() string { return string(e) }

var (
	// ErrInvalidSquare marks a coordinate outside [0,7]. Legality checks
	// treat such squares as "not legal" instead of returning it.
	ErrInvalidSquare   error = staticErr("square is off the board")
	ErrNoPieceAtSource error = staticErr("no piece at source position")
	ErrIllegalMove     error = staticErr("illegal move")

	// ErrKingNotFound means a king was queried after it left the board.
	ErrKingNotFound error = staticErr("king not found")
)
