// FILE: internal/notation/validate.go
package notation

import (
	"llmchess/internal/board"
	"llmchess/internal/core"
)

// Validate applies the safety invariants that hold in both normal and
// rule-breaking mode, plus the legality requirement in normal mode. It
// mutates nothing; every simulation is reverted before returning.
func Validate(res *Resolved, mover core.Color, b *board.Board, free bool) error {
	if res.SpawnType != core.PieceNone {
		return validateSpawn(res, mover, b, free)
	}

	if res.Piece == nil {
		return ErrMissingPiece
	}
	if res.Piece.Color != mover {
		return ErrWrongColor
	}
	if target := b.PieceAt(res.To); target != nil && target.Type == core.PieceKing && target.Color == mover {
		return ErrKingCapture
	}
	if res.Synthesized && !free {
		return ErrMissingPiece
	}

	if b.KingInCheck(mover) {
		if !resolvesCheck(res, mover, b) {
			return ErrUnresolvedCheck
		}
	}

	if !free && !containsSquare(b.LegalMoves(res.Piece), res.To) {
		return ErrIllegalMove
	}
	return nil
}

func validateSpawn(res *Resolved, mover core.Color, b *board.Board, free bool) error {
	if !free {
		return ErrMissingPiece
	}
	if target := b.PieceAt(res.To); target != nil && target.Type == core.PieceKing {
		return ErrKingCapture
	}
	if b.KingInCheck(mover) && !b.SpawnResolvesCheck(res.SpawnType, mover, res.To) {
		return ErrUnresolvedCheck
	}
	return nil
}

// resolvesCheck simulates the proposed piece/destination pair. A synthesized
// piece is placed on the board for the duration of the simulation.
func resolvesCheck(res *Resolved, mover core.Color, b *board.Board) bool {
	p := res.Piece
	if !res.Synthesized {
		return b.MoveResolvesCheck(p, res.To)
	}
	if b.Place(p) != nil {
		return false
	}
	ok := b.MoveResolvesCheck(p, res.To)
	b.Remove(p.Square)
	return ok
}
