// internal/board/geometry.go
//
// Positions, directions and ray walking. Both rule engines consume these
// helpers instead of stepping through the grid themselves.

package board

import "iter"

// Size is the side length of the square board.
const Size = 8

// Pos is a square coordinate. X is the column, Y the row; both in [0,Size).
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// In reports whether p lies on the board.
func (p Pos) In() bool { return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size }

// Add returns p moved n steps along d.
func (p Pos) Add(d Dir, n int) Pos { return Pos{X: p.X + d.DX*n, Y: p.Y + d.DY*n} }

// Dir is a unit step.
type Dir struct{ DX, DY int }

var (
	Diagonals   = [4]Dir{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	Orthogonals = [4]Dir{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// Diagonal reports whether d moves along a diagonal.
func (d Dir) Diagonal() bool { return d.DX != 0 && d.DY != 0 }

// Ray yields the squares strictly beyond from along d, stopping before the
// first off-board step.
func Ray(from Pos, d Dir) iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for p := from.Add(d, 1); p.In(); p = p.Add(d, 1) {
			if !yield(p) {
				return
			}
		}
	}
}

// Line resolves the straight segment from -> to.
// It returns the unit direction, the number of steps, and ok=false when the
// two squares are equal or do not share a row, column or diagonal.
func Line(from, to Pos) (d Dir, steps int, ok bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	ax, ay := abs(dx), abs(dy)
	switch {
	case ax == 0 && ay == 0:
		return Dir{}, 0, false
	case ax != 0 && ay != 0 && ax != ay:
		return Dir{}, 0, false
	}
	steps = max(ax, ay)
	return Dir{DX: sign(dx), DY: sign(dy)}, steps, true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
