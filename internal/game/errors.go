// FILE: internal/game/errors.go
package game

import "errors"

var (
	ErrGameOver      = errors.New("game is over")
	ErrOutOfTurn     = errors.New("not this side's turn")
	ErrIllegalMove   = errors.New("illegal move")
	ErrInvalidSquare = errors.New("invalid square")
	ErrKingCapture   = errors.New("cannot capture a king this way")
)
