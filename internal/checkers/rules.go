// internal/checkers/rules.go
//
// Checkers rule engine: state-free functions over a board.
// Responsibilities:
//   - Path checks for a king's non-capturing slide.
//   - Capture existence (HasAnyCapture) and enumeration (Captures).
//   - King landing pruning: on each ray, landings that allow a follow-up
//     capture exclude the ones that would end the chain.
//   - Forced-capture detection (MustCapture) and promotion rows.

package checkers

import "github.com/robalobadob/boardgames/internal/board"

// Capture is one legal jump: the mover on From removes the piece on Over and lands on To.
type Capture struct {
	From board.Pos
	Over board.Pos
	To   board.Pos
}

// forward returns the row delta a man of color c steps toward.
func forward(c board.Color) int {
	if c == board.White {
		return -1
	}
	return 1
}

// promotionRow is the farthest row from c's starting side.
func promotionRow(c board.Color) int {
	if c == board.White {
		return 0
	}
	return board.Size - 1
}

// Promotes reports whether pc becomes a king by landing on p.
func Promotes(pc board.Piece, p board.Pos) bool {
	return !pc.IsKing() && p.Y == promotionRow(pc.Color)
}

// PathClear reports whether every square strictly between from and to is empty.
// from and to must share a diagonal.
func PathClear(b *board.Board, from, to board.Pos) bool {
	d, steps, ok := board.Line(from, to)
	if !ok || !d.Diagonal() {
		return false
	}
	for i := 1; i < steps; i++ {
		if !b.Empty(from.Add(d, i)) {
			return false
		}
	}
	return true
}

// HasAnyCapture reports whether pc standing on pos has at least one capture.
// Unlike Captures it does no landing enumeration or lookahead.
func HasAnyCapture(b *board.Board, pos board.Pos, pc board.Piece) bool {
	for _, d := range pc.Kind.Directions() {
		if pc.Kind.Slides() {
			enemy, ok := firstEnemy(b, pos, d, pc.Color)
			if !ok {
				continue
			}
			if beyond := enemy.Add(d, 1); beyond.In() && b.Empty(beyond) {
				return true
			}
			continue
		}
		if _, ok := manCapture(b, pos, d, pc.Color); ok {
			return true
		}
	}
	return false
}

// Captures enumerates the legal captures for pc standing on pos.
func Captures(b *board.Board, pos board.Pos, pc board.Piece) []Capture {
	var res []Capture
	for _, d := range pc.Kind.Directions() {
		if !pc.Kind.Slides() {
			if c, ok := manCapture(b, pos, d, pc.Color); ok {
				res = append(res, c)
			}
			continue
		}
		res = append(res, kingCaptures(b, pos, d, pc)...)
	}
	return res
}

// MustCapture reports whether any piece of color c has a capture available.
func MustCapture(b *board.Board, c board.Color) bool {
	for p, pc := range b.Squares {
		if pc.Color == c && len(Captures(b, p, pc)) > 0 {
			return true
		}
	}
	return false
}

// manCapture checks the one-square jump along d.
func manCapture(b *board.Board, pos board.Pos, d board.Dir, c board.Color) (Capture, bool) {
	over, to := pos.Add(d, 1), pos.Add(d, 2)
	if !to.In() {
		return Capture{}, false
	}
	mid := b.At(over)
	if mid.Empty() || mid.Color == c || !b.Empty(to) {
		return Capture{}, false
	}
	return Capture{From: pos, Over: over, To: to}, true
}

// firstEnemy walks d from pos to the first occupied square and returns it if
// it holds an opponent piece.
func firstEnemy(b *board.Board, pos board.Pos, d board.Dir, c board.Color) (board.Pos, bool) {
	for p := range board.Ray(pos, d) {
		if b.Empty(p) {
			continue
		}
		return p, b.At(p).Color != c
	}
	return board.Pos{}, false
}

// kingCaptures returns the captures along a single ray. Every empty square
// behind the first enemy is a candidate landing; if any candidate leaves a
// follow-up capture, only those candidates are legal.
func kingCaptures(b *board.Board, pos board.Pos, d board.Dir, pc board.Piece) []Capture {
	enemy, ok := firstEnemy(b, pos, d, pc.Color)
	if !ok {
		return nil
	}

	var landings []board.Pos
	for p := range board.Ray(enemy, d) {
		if !b.Empty(p) {
			break
		}
		landings = append(landings, p)
	}
	if len(landings) == 0 {
		return nil
	}

	var continuing []board.Pos
	for _, l := range landings {
		sim := b.Clone()
		sim.Clear(enemy)
		sim.Relocate(pos, l, pc)
		if HasAnyCapture(&sim, l, pc) {
			continuing = append(continuing, l)
		}
	}
	if len(continuing) > 0 {
		landings = continuing
	}

	res := make([]Capture, 0, len(landings))
	for _, l := range landings {
		res = append(res, Capture{From: pos, Over: enemy, To: l})
	}
	return res
}

// findCapture returns the capture in caps landing on to.
func findCapture(caps []Capture, to board.Pos) (Capture, bool) {
	for _, c := range caps {
		if c.To == to {
			return c, true
		}
	}
	return Capture{}, false
}
