package chessdto

// Coord is a board coordinate on the wire. Fields are pointers so a
// missing row or col can be told apart from zero.
type Coord struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// At builds a Coord.
func At(row, col int) *Coord {
	return &Coord{Row: &row, Col: &col}
}

// Complete reports whether both fields were supplied.
func (c *Coord) Complete() bool {
	return c != nil && c.Row != nil && c.Col != nil
}

// MoveRequest is the body of PUT /chess/{id}/move.
type MoveRequest struct {
	From *Coord `json:"from"`
	To   *Coord `json:"to"`
}

// Valid reports whether both coordinates are present.
func (r MoveRequest) Valid() bool {
	return r.From.Complete() && r.To.Complete()
}

// LastMove echoes the most recent move of a game.
type LastMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Square is a resolved coordinate in responses.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
