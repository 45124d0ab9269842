package chesspresenter

import (
	corechess "github.com/park285/chess-api/internal/chess"
	"github.com/park285/chess-api/internal/domain"
	svcchess "github.com/park285/chess-api/internal/service/chess"
	"github.com/park285/chess-api/pkg/chessdto"
)

// ToDTOState converts a stored game into its wire form, including the FEN.
func ToDTOState(g *domain.ChessGame) *chessdto.GameState {
	if g == nil {
		return nil
	}
	state := &chessdto.GameState{
		GameID:    g.ID,
		Board:     ToDTOBoard(&g.Board),
		Turn:      string(g.Turn),
		FEN:       svcchess.FullFEN(&g.Game),
		GameOver:  g.GameOver,
		Winner:    string(g.Winner),
		MoveCount: g.MoveCount,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if mv := g.LastMove; mv != nil {
		state.LastMove = &chessdto.LastMove{
			From: toDTOSquare(mv.From),
			To:   toDTOSquare(mv.To),
		}
	}
	return state
}

// ToDTOBoard lists rows from row 0; empty squares are nil.
func ToDTOBoard(b *corechess.Board) [][]*chessdto.Piece {
	rows := make([][]*chessdto.Piece, corechess.Size)
	for r := 0; r < corechess.Size; r++ {
		rows[r] = make([]*chessdto.Piece, corechess.Size)
		for c := 0; c < corechess.Size; c++ {
			if p, ok := b.At(corechess.Sq(r, c)); ok {
				rows[r][c] = &chessdto.Piece{Type: string(p.Type), Color: string(p.Color)}
			}
		}
	}
	return rows
}

func ToDTOStatus(st *domain.ChessStatus) *chessdto.StatusResponse {
	if st == nil {
		return nil
	}
	return &chessdto.StatusResponse{
		GameID:    st.GameID,
		Color:     string(st.Color),
		Turn:      string(st.Turn),
		Check:     st.Check,
		Checkmate: st.Checkmate,
		GameOver:  st.GameOver,
		Winner:    string(st.Winner),
	}
}

func toDTOSquare(sq corechess.Square) chessdto.Square {
	return chessdto.Square{Row: sq.Row, Col: sq.Col}
}
