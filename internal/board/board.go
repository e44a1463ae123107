// internal/board/board.go
//
// Board is a fixed 8x8 grid of piece values.
//
// Notes:
//   - The grid is an array of values, so copying a Board (Clone) yields a
//     fully independent board. Engines rely on this for speculative lookahead.
//   - Callers bounds-check positions with Pos.In before indexing.

package board

import "encoding/json"

// Board maps every square to a Piece; the zero Piece is empty.
type Board struct {
	cells [Size][Size]Piece // indexed [y][x]
}

// At returns the piece on p (zero Piece if empty).
func (b *Board) At(p Pos) Piece { return b.cells[p.Y][p.X] }

// Set places pc on p. Setting the zero Piece clears the square.
func (b *Board) Set(p Pos, pc Piece) { b.cells[p.Y][p.X] = pc }

// Clear empties p.
func (b *Board) Clear(p Pos) { b.cells[p.Y][p.X] = Piece{} }

// Empty reports whether p holds no piece.
func (b *Board) Empty(p Pos) bool { return b.cells[p.Y][p.X].Empty() }

// Clone returns a deep, independent copy.
func (b *Board) Clone() Board { return *b }

// Relocate moves the piece on from to to, replacing it with pc.
func (b *Board) Relocate(from, to Pos, pc Piece) {
	b.Clear(from)
	b.Set(to, pc)
}

// Squares yields every occupied square and its piece in row-major order.
func (b *Board) Squares(yield func(Pos, Piece) bool) {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if pc := b.cells[y][x]; !pc.Empty() {
				if !yield(Pos{X: x, Y: y}, pc) {
					return
				}
			}
		}
	}
}

// Count returns the number of pieces of color c.
func (b *Board) Count(c Color) int {
	n := 0
	for _, pc := range b.Squares {
		if pc.Color == c {
			n++
		}
	}
	return n
}

// MarshalJSON renders rows indexed [y][x], null for empty squares.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*pieceJSON, Size)
	for y := range rows {
		rows[y] = make([]*pieceJSON, Size)
		for x, pc := range b.cells[y] {
			if pc.Empty() {
				continue
			}
			rows[y][x] = &pieceJSON{Color: pc.Color, King: pc.IsKing()}
		}
	}
	return json.Marshal(rows)
}
