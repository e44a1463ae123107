package game

import (
	"errors"
	"fmt"
)

// Rejection kinds. Use errors.Is against these.
var (
	ErrNotFound     = errors.New("not found")
	ErrIllegalState = errors.New("illegal state")
	ErrIllegalMove  = errors.New("illegal move")
)

// Rejection is an expected refusal carrying the reason shown to the player.
type Rejection struct {
	Kind   error
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }
func (r *Rejection) Unwrap() error { return r.Kind }

// NotFound, IllegalState and IllegalMove build rejections of the matching kind.
func NotFound(format string, a ...any) error {
	return &Rejection{Kind: ErrNotFound, Reason: fmt.Sprintf(format, a...)}
}

func IllegalState(format string, a ...any) error {
	return &Rejection{Kind: ErrIllegalState, Reason: fmt.Sprintf(format, a...)}
}

func IllegalMove(format string, a ...any) error {
	return &Rejection{Kind: ErrIllegalMove, Reason: fmt.Sprintf(format, a...)}
}

// KindName returns a short label for err's rejection kind, or "internal".
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrIllegalState):
		return "illegal_state"
	case errors.Is(err, ErrIllegalMove):
		return "illegal_move"
	}
	return "internal"
}
