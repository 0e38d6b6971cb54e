// FILE: internal/ai/controller.go
package ai

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"llmchess/internal/core"
	"llmchess/internal/game"
	"llmchess/internal/notation"
)

// Config tunes the two-phase rule-adherence policy.
type Config struct {
	BreakThreshold   int     // moves 1..threshold are always rule-bound
	BreakProbability float64 // per-turn sample once past the threshold
}

func DefaultConfig() Config {
	return Config{
		BreakThreshold:   6,
		BreakProbability: 0.2,
	}
}

// Controller orchestrates the request/response cycle with the completion
// service for one side of one game. It is driven by whichever goroutine owns
// the turn; it performs no board mutation while a request is in flight.
type Controller struct {
	completer Completer
	color     core.Color
	cfg       Config
	rng       *rand.Rand
	conv      *Conversation
}

// NewController creates a controller with an injected random source so
// policy sampling and fallback selection are deterministic in tests.
func NewController(completer Completer, color core.Color, cfg Config, rng *rand.Rand) *Controller {
	return &Controller{
		completer: completer,
		color:     color,
		cfg:       cfg,
		rng:       rng,
		conv:      newConversation(),
	}
}

func (c *Controller) Color() core.Color {
	return c.color
}

// Reset discards conversation state. Called alongside game reset.
func (c *Controller) Reset() {
	c.conv = newConversation()
}

// sampleRuleBreaking fixes the mode for a single turn before validation
// begins. Below the threshold the sample is deterministically false.
func (c *Controller) sampleRuleBreaking() bool {
	if c.conv.moveCount < c.cfg.BreakThreshold {
		return false
	}
	return c.rng.Float64() < c.cfg.BreakProbability
}

// TakeTurn runs one full AI turn: prompt, request, interpret, validate,
// apply, falling back to a synthesized move on any failure so the turn
// always resolves. The terminal flag is re-checked at every suspension
// point; a finished game abandons the turn silently.
func (c *Controller) TakeTurn(ctx context.Context, g *game.Game) (*game.MoveResult, error) {
	if g.Over() {
		return nil, nil
	}

	free := c.sampleRuleBreaking()

	prompt := c.buildPrompt(g)
	c.conv.append("user", prompt)
	c.conv.firstRequest = false

	if g.Over() {
		return nil, nil
	}

	text, err := c.completer.Complete(ctx, c.conv.messages)
	if err != nil {
		// no network retry; substitute a synthesized move instead
		log.Printf("AI turn: completion failed (%v), synthesizing move", err)
		return c.fallback(g, "")
	}

	if g.Over() {
		return nil, nil
	}
	c.conv.append("assistant", text)

	res, err := notation.Interpret(text, c.color, g.Board())
	if err == nil {
		err = notation.Validate(res, c.color, g.Board(), free)
	}
	if err != nil {
		log.Printf("AI turn: move %q rejected (%v), synthesizing move", text, err)
		return c.fallback(g, text)
	}

	if g.Over() {
		return nil, nil
	}

	result, err := c.apply(g, res, free)
	if err != nil {
		log.Printf("AI turn: applying %q failed (%v), synthesizing move", text, err)
		return c.fallback(g, text)
	}

	c.conv.recordMove(result.Move)
	return result, nil
}

// apply routes a validated resolution to the matching engine operation.
func (c *Controller) apply(g *game.Game, res *notation.Resolved, free bool) (*game.MoveResult, error) {
	switch {
	case res.SpawnType != core.PieceNone:
		return g.SpawnPiece(res.SpawnType, c.color, res.To)
	case res.Synthesized:
		// the permissive coordinate-pair path: materialize, then force-move
		p, err := g.Board().Spawn(res.Piece.Type, c.color, res.Piece.Square)
		if err != nil {
			return nil, err
		}
		return g.ApplyForcedMove(p, res.To, res.Promotion)
	case free:
		return g.ApplyForcedMove(res.Piece, res.To, res.Promotion)
	default:
		return g.ApplyMoveWithPromotion(res.Piece, res.To, res.Promotion)
	}
}

// fallback runs the synthesized-move path and appends a corrective entry so
// the model sees what actually happened on the board.
func (c *Controller) fallback(g *game.Game, rejected string) (*game.MoveResult, error) {
	if g.Over() {
		return nil, nil
	}
	result, err := c.fallbackMove(g)
	if err != nil {
		return nil, err
	}
	c.conv.recordMove(result.Move)
	if rejected != "" {
		c.conv.append("user", fmt.Sprintf(
			"Your reply %q was not a usable move. The move %s was played for you instead.",
			rejected, result.Move))
	} else {
		c.conv.append("user", fmt.Sprintf("The move %s was played for you.", result.Move))
	}
	return result, nil
}
