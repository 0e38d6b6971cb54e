// FILE: internal/board/legality.go
package board

import (
	"llmchess/internal/core"
)

type CastleSide int

const (
	CastleKingside CastleSide = iota
	CastleQueenside
)

// moveSim snapshots all state a simulated move touches so it can be
// reverted unconditionally.
type moveSim struct {
	piece        *Piece
	from         core.Square
	hadMoved     bool
	captured     *Piece
	capturedSq   core.Square
	rook         *Piece
	rookFrom     core.Square
	rookHadMoved bool
	prevEP       *EnPassant
}

// beginSim applies a move to the board without flipping the turn, including
// the synchronized castling-rook relocation and en-passant pawn removal.
func (b *Board) beginSim(p *Piece, to core.Square) moveSim {
	sim := moveSim{piece: p, from: p.Square, hadMoved: p.HasMoved, prevEP: b.enPassant}

	if p.Type == core.PieceKing && to.Rank == p.Square.Rank && abs(to.File-p.Square.File) == 2 {
		rookFrom := core.Square{File: 0, Rank: to.Rank}
		rookTo := core.Square{File: 3, Rank: to.Rank}
		if to.File == 6 {
			rookFrom.File = 7
			rookTo.File = 5
		}
		rook := b.PieceAt(rookFrom)
		if rook != nil && rook.Type == core.PieceRook && rook.Color == p.Color && b.PieceAt(rookTo) == nil {
			sim.rook = rook
			sim.rookFrom = rookFrom
			sim.rookHadMoved = rook.HasMoved
			b.Remove(rookFrom)
			b.squares[rookTo.File][rookTo.Rank] = rook
			rook.Square = rookTo
			rook.HasMoved = true
		}
	} else if p.Type == core.PiecePawn && to.File != p.Square.File && b.PieceAt(to) == nil &&
		b.enPassant != nil && b.enPassant.By != p.Color && b.enPassant.Target == to {
		sim.capturedSq = core.Square{File: to.File, Rank: to.Rank - PawnDirection(p.Color)}
		sim.captured = b.Remove(sim.capturedSq)
	}

	if target := b.PieceAt(to); target != nil {
		sim.captured = b.Remove(to)
		sim.capturedSq = to
	}

	b.Remove(p.Square)
	b.squares[to.File][to.Rank] = p
	p.Square = to
	p.HasMoved = true

	switch {
	case p.Type == core.PiecePawn && abs(to.Rank-sim.from.Rank) == 2:
		b.enPassant = &EnPassant{
			Target: core.Square{File: to.File, Rank: (to.Rank + sim.from.Rank) / 2},
			By:     p.Color,
		}
	case b.enPassant != nil && b.enPassant.By == p.Color:
		// the opportunity lives exactly one ply
		b.enPassant = nil
	case sim.captured != nil && sim.capturedSq != to:
		// consumed by the en-passant capture
		b.enPassant = nil
	}

	return sim
}

// revert undoes a simulated move.
func (b *Board) revert(sim moveSim) {
	p := sim.piece
	b.Remove(p.Square)
	b.squares[sim.from.File][sim.from.Rank] = p
	p.Square = sim.from
	p.HasMoved = sim.hadMoved

	if sim.captured != nil {
		b.squares[sim.capturedSq.File][sim.capturedSq.Rank] = sim.captured
		sim.captured.Square = sim.capturedSq
	}
	if sim.rook != nil {
		b.Remove(sim.rook.Square)
		b.squares[sim.rookFrom.File][sim.rookFrom.Rank] = sim.rook
		sim.rook.Square = sim.rookFrom
		sim.rook.HasMoved = sim.rookHadMoved
	}
	b.enPassant = sim.prevEP
}

// LegalMoves filters the pseudo-move set down to moves that do not leave the
// mover's own king in check. The single simulate/check/revert predicate
// covers both resolving an existing check and not self-checking.
func (b *Board) LegalMoves(p *Piece) []core.Square {
	var legal []core.Square
	for _, to := range b.PseudoMoves(p) {
		sim := b.beginSim(p, to)
		inCheck := b.KingInCheck(p.Color)
		b.revert(sim)
		if !inCheck {
			legal = append(legal, to)
		}
	}
	return legal
}

// MoveResolvesCheck simulates an arbitrary proposed move and reports whether
// the mover's king is safe afterward. Used for both normal and rule-breaking
// validation.
func (b *Board) MoveResolvesCheck(p *Piece, to core.Square) bool {
	sim := b.beginSim(p, to)
	inCheck := b.KingInCheck(p.Color)
	b.revert(sim)
	return !inCheck
}

// SpawnResolvesCheck reports whether materializing a piece at a square leaves
// the spawner's king safe. Snapshot and restore of the vacated occupant keeps
// the board unchanged.
func (b *Board) SpawnResolvesCheck(t core.PieceType, c core.Color, sq core.Square) bool {
	if !sq.Valid() {
		return false
	}
	displaced := b.Remove(sq)
	spawned := &Piece{Type: t, Color: c, Square: sq, HasMoved: true}
	b.squares[sq.File][sq.Rank] = spawned

	inCheck := b.KingInCheck(c)

	b.Remove(sq)
	if displaced != nil {
		b.squares[sq.File][sq.Rank] = displaced
	}
	return !inCheck
}

// KingInCheck reports whether the color's king is attacked. A missing king
// (captured in rule-breaking play) is not in check; that condition is
// terminal and handled by the game engine.
func (b *Board) KingInCheck(c core.Color) bool {
	king := b.King(c)
	if king == nil {
		return false
	}
	return b.SquareAttacked(king.Square, core.OppositeColor(c))
}

// HasLegalMoves short-circuits on the first piece with a non-empty legal set.
func (b *Board) HasLegalMoves(c core.Color) bool {
	for _, p := range b.Pieces(c) {
		if len(b.LegalMoves(p)) > 0 {
			return true
		}
	}
	return false
}

func (b *Board) IsCheckmate(c core.Color) bool {
	return b.KingInCheck(c) && !b.HasLegalMoves(c)
}

func (b *Board) IsStalemate(c core.Color) bool {
	return !b.KingInCheck(c) && !b.HasLegalMoves(c)
}

// CanCastle checks full castling eligibility: corner rook present, unmoved
// and friendly; intervening squares empty; king unmoved and not in check;
// no square the king traverses attacked by the opponent.
func (b *Board) CanCastle(king *Piece, side CastleSide) bool {
	if king.Type != core.PieceKing || king.HasMoved {
		return false
	}
	rank := king.Square.Rank
	opponent := core.OppositeColor(king.Color)

	rookFile := 7
	between := []int{5, 6}
	traversed := []int{4, 5, 6}
	if side == CastleQueenside {
		rookFile = 0
		between = []int{1, 2, 3}
		traversed = []int{4, 3, 2}
	}

	rook := b.PieceAt(core.Square{File: rookFile, Rank: rank})
	if rook == nil || rook.Type != core.PieceRook || rook.Color != king.Color || rook.HasMoved {
		return false
	}
	for _, f := range between {
		if b.PieceAt(core.Square{File: f, Rank: rank}) != nil {
			return false
		}
	}
	for _, f := range traversed {
		if b.SquareAttacked(core.Square{File: f, Rank: rank}, opponent) {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
