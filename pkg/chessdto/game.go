package chessdto

import "time"

// Piece mirrors one occupied board cell.
type Piece struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// GameState is returned by every endpoint that reads or changes a game.
// Board rows run from row 0 (black's back rank) to row 7; empty cells are null.
type GameState struct {
	GameID    string     `json:"game_id"`
	Board     [][]*Piece `json:"board"`
	Turn      string     `json:"turn"`
	FEN       string     `json:"fen,omitempty"`
	GameOver  bool       `json:"game_over"`
	Winner    string     `json:"winner,omitempty"`
	MoveCount int        `json:"move_count"`
	LastMove  *LastMove  `json:"last_move,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// StatusResponse reports check and checkmate for one color.
type StatusResponse struct {
	GameID    string `json:"game_id"`
	Color     string `json:"color"`
	Turn      string `json:"turn"`
	Check     bool   `json:"check"`
	Checkmate bool   `json:"checkmate"`
	GameOver  bool   `json:"game_over"`
	Winner    string `json:"winner,omitempty"`
}

// MessageResponse carries a plain confirmation such as "Game deleted".
type MessageResponse struct {
	Message string `json:"message"`
}
