// FILE: internal/board/movegen.go
package board

import (
	"llmchess/internal/core"
)

var (
	rookDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightOffs = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffs   = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
)

// PawnDirection is the rank delta a pawn of the given color advances by.
func PawnDirection(c core.Color) int {
	if c == core.ColorWhite {
		return 1
	}
	return -1
}

// PawnHomeRank is the rank a pawn double-steps from.
func PawnHomeRank(c core.Color) int {
	if c == core.ColorWhite {
		return 1
	}
	return 6
}

// PromotionRank is the farthest rank for a pawn of the given color.
func PromotionRank(c core.Color) int {
	if c == core.ColorWhite {
		return 7
	}
	return 0
}

// PseudoMoves enumerates the piece's raw destination set. King moves already
// exclude squares attacked by the opposing color and include castling
// candidates; all other types defer king safety to the legality filter.
func (b *Board) PseudoMoves(p *Piece) []core.Square {
	switch p.Type {
	case core.PiecePawn:
		return b.pawnMoves(p)
	case core.PieceRook:
		return b.rayMoves(p, rookDirs)
	case core.PieceBishop:
		return b.rayMoves(p, bishopDirs)
	case core.PieceQueen:
		return append(b.rayMoves(p, rookDirs), b.rayMoves(p, bishopDirs)...)
	case core.PieceKnight:
		return b.offsetMoves(p, knightOffs)
	case core.PieceKing:
		return b.kingMoves(p, true, true)
	}
	return nil
}

// SquareAttacked reports whether any piece of the given color reaches the
// square in its pseudo-move set. King contributions use the plain adjacent
// set (no castling, no attack filtering) to avoid recursive evaluation.
func (b *Board) SquareAttacked(sq core.Square, by core.Color) bool {
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			p := b.squares[f][r]
			if p == nil || p.Color != by {
				continue
			}
			for _, m := range b.attackMoves(p) {
				if m == sq {
					return true
				}
			}
		}
	}
	return false
}

// attackMoves is the pseudo-move set used for attack queries.
func (b *Board) attackMoves(p *Piece) []core.Square {
	if p.Type == core.PieceKing {
		return b.kingMoves(p, false, false)
	}
	return b.PseudoMoves(p)
}

func (b *Board) pawnMoves(p *Piece) []core.Square {
	var moves []core.Square
	dir := PawnDirection(p.Color)

	one := core.Square{File: p.Square.File, Rank: p.Square.Rank + dir}
	if one.Valid() && b.PieceAt(one) == nil {
		moves = append(moves, one)

		two := core.Square{File: p.Square.File, Rank: p.Square.Rank + 2*dir}
		if !p.HasMoved && p.Square.Rank == PawnHomeRank(p.Color) && two.Valid() && b.PieceAt(two) == nil {
			moves = append(moves, two)
		}
	}

	for _, df := range []int{-1, 1} {
		cap := core.Square{File: p.Square.File + df, Rank: p.Square.Rank + dir}
		if !cap.Valid() {
			continue
		}
		if target := b.PieceAt(cap); target != nil && target.Color != p.Color {
			moves = append(moves, cap)
		} else if target == nil && b.enPassant != nil && b.enPassant.By != p.Color && b.enPassant.Target == cap {
			moves = append(moves, cap)
		}
	}

	return moves
}

func (b *Board) rayMoves(p *Piece, dirs [][2]int) []core.Square {
	var moves []core.Square
	for _, d := range dirs {
		sq := core.Square{File: p.Square.File + d[0], Rank: p.Square.Rank + d[1]}
		for sq.Valid() {
			target := b.PieceAt(sq)
			if target == nil {
				moves = append(moves, sq)
			} else {
				if target.Color != p.Color {
					moves = append(moves, sq)
				}
				break
			}
			sq = core.Square{File: sq.File + d[0], Rank: sq.Rank + d[1]}
		}
	}
	return moves
}

func (b *Board) offsetMoves(p *Piece, offs [][2]int) []core.Square {
	var moves []core.Square
	for _, o := range offs {
		sq := core.Square{File: p.Square.File + o[0], Rank: p.Square.Rank + o[1]}
		if !sq.Valid() {
			continue
		}
		if target := b.PieceAt(sq); target == nil || target.Color != p.Color {
			moves = append(moves, sq)
		}
	}
	return moves
}

func (b *Board) kingMoves(p *Piece, withCastling, excludeAttacked bool) []core.Square {
	var moves []core.Square
	opponent := core.OppositeColor(p.Color)
	for _, o := range kingOffs {
		sq := core.Square{File: p.Square.File + o[0], Rank: p.Square.Rank + o[1]}
		if !sq.Valid() {
			continue
		}
		if target := b.PieceAt(sq); target != nil && target.Color == p.Color {
			continue
		}
		if excludeAttacked && b.SquareAttacked(sq, opponent) {
			continue
		}
		moves = append(moves, sq)
	}

	if withCastling {
		if b.CanCastle(p, CastleKingside) {
			moves = append(moves, core.Square{File: 6, Rank: p.Square.Rank})
		}
		if b.CanCastle(p, CastleQueenside) {
			moves = append(moves, core.Square{File: 2, Rank: p.Square.Rank})
		}
	}

	return moves
}
