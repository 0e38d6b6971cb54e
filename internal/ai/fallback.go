// FILE: internal/ai/fallback.go
package ai

import (
	"fmt"

	"llmchess/internal/core"
	"llmchess/internal/game"
)

const (
	fallbackAttempts = 12
	forcedDestTries  = 32
)

// fallbackMove synthesizes a move when the completion service fails or its
// answer is rejected. It tries random legal moves within a bounded attempt
// budget, spawns a pawn when the side has no pieces, and as a last resort
// performs one unconstrained forced move so the turn always resolves.
func (c *Controller) fallbackMove(g *game.Game) (*game.MoveResult, error) {
	b := g.Board()

	for i := 0; i < fallbackAttempts; i++ {
		pieces := b.Pieces(c.color)
		if len(pieces) == 0 {
			if res, err := g.SpawnPiece(core.PiecePawn, c.color, c.randomSquare()); err == nil {
				return res, nil
			}
			continue
		}

		p := pieces[c.rng.Intn(len(pieces))]
		moves := b.LegalMoves(p)
		if len(moves) == 0 {
			continue
		}
		// legal moves already resolve any existing check
		to := moves[c.rng.Intn(len(moves))]
		if res, err := g.ApplyMove(p, to); err == nil {
			return res, nil
		}
	}

	// final guarantee of turn progress: unconstrained forced move or spawn
	pieces := b.Pieces(c.color)
	if len(pieces) == 0 {
		return g.SpawnPiece(core.PiecePawn, c.color, c.randomSquare())
	}
	p := pieces[c.rng.Intn(len(pieces))]
	for i := 0; i < forcedDestTries; i++ {
		to := c.randomSquare()
		if to == p.Square {
			continue
		}
		if target := b.PieceAt(to); target != nil && target.Type == core.PieceKing {
			continue
		}
		if res, err := g.ApplyForcedMove(p, to, core.PieceNone); err == nil {
			return res, nil
		}
	}
	return nil, fmt.Errorf("fallback synthesis exhausted for %s", c.color.Name())
}

func (c *Controller) randomSquare() core.Square {
	return core.Square{File: c.rng.Intn(8), Rank: c.rng.Intn(8)}
}
