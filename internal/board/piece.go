// internal/board/piece.go
//
// Piece and color definitions shared by both rule sets.
// Defines:
//   - Color: the two sides ("white" moves first, "black" second).
//   - Kind: the mobility class of a piece (man, king, stone).
//   - Piece: a value type; the zero Piece is an empty square.

package board

// Color identifies a side. The empty string means "no piece".
type Color string

const (
	NoColor Color = ""
	White   Color = "white"
	Black   Color = "black"
)

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// Valid reports whether c is one of the two playing colors.
func (c Color) Valid() bool { return c == White || c == Black }

// Kind is the mobility class of a piece.
//   - Man:   checkers piece, single diagonal step forward, captures both ways.
//   - King:  promoted checkers piece, slides any distance along a diagonal.
//   - Stone: corners piece, single orthogonal step or jump.
type Kind uint8

const (
	Man Kind = iota
	King
	Stone
)

// Directions returns the unit directions a piece of this kind may travel.
func (k Kind) Directions() []Dir {
	if k == Stone {
		return Orthogonals[:]
	}
	return Diagonals[:]
}

// Slides reports whether the kind may travel more than one square per ray.
func (k Kind) Slides() bool { return k == King }

// Piece occupies one square. Pieces carry no identity beyond the square they sit on.
type Piece struct {
	Color Color
	Kind  Kind
}

// Empty reports whether p represents an empty square.
func (p Piece) Empty() bool { return p.Color == NoColor }

// IsKing reports whether p is a promoted checkers piece.
func (p Piece) IsKing() bool { return p.Kind == King }

// Promoted returns p as a king.
func (p Piece) Promoted() Piece {
	p.Kind = King
	return p
}

// pieceJSON is the wire shape the web client renders.
type pieceJSON struct {
	Color Color `json:"color"`
	King  bool  `json:"king"`
}
