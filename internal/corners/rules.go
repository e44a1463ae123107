// internal/corners/rules.go
//
// Corners (ugolki) rule engine.
// Responsibilities:
//   - Step/jump generation along the four orthogonal directions.
//   - Start and target zones (3x3, opposite corners).
//   - Win detection: the mover's pieces fill the opponent's start zone.

package corners

import "github.com/robalobadob/boardgames/internal/board"

// ZoneSize is the side length of each corner zone.
const ZoneSize = 3

// Move is a generated step or jump.
type Move struct {
	From board.Pos
	To   board.Pos
	Jump bool
}

// Zone is a ZoneSize x ZoneSize square anchored at its top-left corner.
type Zone struct{ X, Y int }

// StartZone is where pieces of color c begin: white bottom-left, black top-right.
func StartZone(c board.Color) Zone {
	if c == board.White {
		return Zone{X: 0, Y: board.Size - ZoneSize}
	}
	return Zone{X: board.Size - ZoneSize, Y: 0}
}

// TargetZone is the zone color c must fill to win.
func TargetZone(c board.Color) Zone { return StartZone(c.Opponent()) }

// Cells yields every square of the zone.
func (z Zone) Cells(yield func(board.Pos) bool) {
	for y := z.Y; y < z.Y+ZoneSize; y++ {
		for x := z.X; x < z.X+ZoneSize; x++ {
			if !yield(board.Pos{X: x, Y: y}) {
				return
			}
		}
	}
}

// StartingBoard fills both start zones with stones.
func StartingBoard() board.Board {
	var b board.Board
	for _, c := range []board.Color{board.White, board.Black} {
		for p := range StartZone(c).Cells {
			b.Set(p, board.Piece{Color: c, Kind: board.Stone})
		}
	}
	return b
}

// Moves generates steps and jumps from pos. Each direction yields at most
// one move: a step onto an empty neighbor, or a jump over an occupied
// neighbor onto the empty square behind it.
func Moves(b *board.Board, pos board.Pos) []Move {
	var res []Move
	for _, d := range board.Orthogonals {
		next := pos.Add(d, 1)
		if !next.In() {
			continue
		}
		if b.Empty(next) {
			res = append(res, Move{From: pos, To: next})
			continue
		}
		if land := pos.Add(d, 2); land.In() && b.Empty(land) {
			res = append(res, Move{From: pos, To: land, Jump: true})
		}
	}
	return res
}

// Jumps is Moves restricted to jumps.
func Jumps(b *board.Board, pos board.Pos) []Move {
	var res []Move
	for _, m := range Moves(b, pos) {
		if m.Jump {
			res = append(res, m)
		}
	}
	return res
}

// Wins reports whether every cell of c's target zone holds a piece of c.
func Wins(b *board.Board, c board.Color) bool {
	for p := range TargetZone(c).Cells {
		if b.At(p).Color != c {
			return false
		}
	}
	return true
}

func findMove(moves []Move, to board.Pos) (Move, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}
