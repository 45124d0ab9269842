package chesspresenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/chess-api/internal/msgcat"
	"github.com/park285/chess-api/pkg/chessdto"
)

const (
	materialScoreNeutral = 39
	files                = "abcdefgh"
)

var pieceValues = map[string]int{"queen": 9, "rook": 5, "bishop": 3, "knight": 3, "pawn": 1}

// Formatter renders chess DTOs into terminal-friendly text blocks.
type Formatter struct {
	catalog *msgcat.Catalog
}

// NewFormatter uses catalog for the text lines; nil falls back to the
// embedded messages.
func NewFormatter(catalog *msgcat.Catalog) *Formatter {
	if catalog == nil {
		catalog = msgcat.MustDefault()
	}
	return &Formatter{catalog: catalog}
}

func (f *Formatter) text(key string, data map[string]any) string {
	return f.catalog.Text(key, data, key)
}

func (f *Formatter) Game(state *chessdto.GameState) string {
	if state == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(f.text("cli.game_header", map[string]any{"ID": state.GameID}))
	sb.WriteString("\n\n")
	sb.WriteString(Board(state.Board, state.LastMove))
	sb.WriteString("\n")

	switch {
	case state.GameOver && state.Winner != "":
		sb.WriteString(f.text("cli.winner", map[string]any{"Winner": state.Winner}))
	case state.GameOver:
		sb.WriteString(f.text("cli.game_over", nil))
	default:
		sb.WriteString(f.text("cli.turn", map[string]any{"Turn": state.Turn}))
	}
	sb.WriteString("\n")
	sb.WriteString(f.text("cli.move_count", map[string]any{"Count": state.MoveCount}))
	if mv := state.LastMove; mv != nil {
		sb.WriteString(fmt.Sprintf(" (last %s-%s)", squareName(mv.From), squareName(mv.To)))
	}
	sb.WriteString("\n")
	appendMaterialLine(&sb, state.Board)
	if state.FEN != "" {
		sb.WriteString("FEN " + state.FEN + "\n")
	}
	if !state.UpdatedAt.IsZero() {
		sb.WriteString("Updated " + formatShortTime(state.UpdatedAt) + "\n")
	}
	return sb.String()
}

func (f *Formatter) Status(st *chessdto.StatusResponse) string {
	if st == nil {
		return ""
	}
	data := map[string]any{"Color": st.Color}
	var sb strings.Builder
	switch {
	case st.GameOver && st.Winner != "":
		sb.WriteString(f.text("cli.winner", map[string]any{"Winner": st.Winner}))
	case st.Checkmate:
		sb.WriteString(f.text("cli.checkmate", data))
	case st.Check:
		sb.WriteString(f.text("cli.check", data))
	default:
		sb.WriteString(f.text("cli.no_check", data))
	}
	sb.WriteString("\n")
	if !st.GameOver {
		sb.WriteString(f.text("cli.turn", map[string]any{"Turn": st.Turn}))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *Formatter) Deleted(id string) string {
	return f.text("cli.deleted", map[string]any{"ID": id}) + "\n"
}

// Board draws the grid with row 0 on top, the way the API indexes it.
// Row and column indices are printed next to the algebraic labels; the
// squares of the last move are bracketed.
func Board(board [][]*chessdto.Piece, last *chessdto.LastMove) string {
	var sb strings.Builder
	sb.WriteString("     ")
	for c := 0; c < len(files); c++ {
		sb.WriteString(fmt.Sprintf(" %d ", c))
	}
	sb.WriteString("\n")
	for r, row := range board {
		sb.WriteString(fmt.Sprintf("%d %d |", r, 8-r))
		for c, p := range row {
			cell := pieceSymbol(p)
			if last != nil && (isSquare(last.From, r, c) || isSquare(last.To, r, c)) {
				sb.WriteString("[" + cell + "]")
				continue
			}
			sb.WriteString(" " + cell + " ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("     ")
	for c := 0; c < len(files); c++ {
		sb.WriteString(" " + string(files[c]) + " ")
	}
	sb.WriteString("\n")
	return sb.String()
}

func isSquare(sq chessdto.Square, r, c int) bool { return sq.Row == r && sq.Col == c }

func squareName(sq chessdto.Square) string {
	if sq.Col < 0 || sq.Col >= len(files) || sq.Row < 0 || sq.Row > 7 {
		return "?"
	}
	return fmt.Sprintf("%c%d", files[sq.Col], 8-sq.Row)
}

func pieceSymbol(p *chessdto.Piece) string {
	if p == nil {
		return "."
	}
	var s string
	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case "king":
		s = "k"
	case "queen":
		s = "q"
	case "rook":
		s = "r"
	case "bishop":
		s = "b"
	case "knight":
		s = "n"
	case "pawn":
		s = "p"
	default:
		return "?"
	}
	if p.Color == "white" {
		return strings.ToUpper(s)
	}
	return s
}

func formatShortTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func appendMaterialLine(sb *strings.Builder, board [][]*chessdto.Piece) {
	if sb == nil {
		return
	}
	sb.WriteString("Material ")
	sb.WriteString(formatMaterial(board))
	sb.WriteString("\n")
}

// formatMaterial reports how many points each side has captured, counted
// from what is left on the board.
func formatMaterial(board [][]*chessdto.Piece) string {
	score := map[string]int{}
	for _, row := range board {
		for _, p := range row {
			if p != nil {
				score[p.Color] += pieceValues[p.Type]
			}
		}
	}
	whiteCaptured := materialScoreNeutral - score["black"]
	blackCaptured := materialScoreNeutral - score["white"]
	if whiteCaptured < 0 {
		whiteCaptured = 0
	}
	if blackCaptured < 0 {
		blackCaptured = 0
	}

	var parts []string
	if whiteCaptured > 0 {
		parts = append(parts, fmt.Sprintf("white +%d", whiteCaptured))
	}
	if blackCaptured > 0 {
		parts = append(parts, fmt.Sprintf("black +%d", blackCaptured))
	}
	if len(parts) == 0 {
		return "even"
	}
	return strings.Join(parts, " / ")
}
