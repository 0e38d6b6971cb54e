// FILE: internal/ai/prompt.go
package ai

import (
	"fmt"
	"strings"

	"llmchess/internal/core"
	"llmchess/internal/game"
)

const historyPlies = 3

// buildPrompt summarizes the game for the completion service: color
// assignment on the first request, then recent move history and the check
// status of both kings.
func (c *Controller) buildPrompt(g *game.Game) string {
	var sb strings.Builder

	if c.conv.firstRequest {
		fmt.Fprintf(&sb, "You are playing %s. Your opponent is %s.\n",
			c.color.Name(), core.OppositeColor(c.color).Name())
	}

	moves := g.Moves()
	if len(moves) == 0 {
		sb.WriteString("The game has just started.\n")
	} else {
		recent := recentHistory(moves, historyPlies)
		fmt.Fprintf(&sb, "Recent moves: %s\n", strings.Join(recent, " "))
	}

	fmt.Fprintf(&sb, "Position: %s\n", g.FEN())

	b := g.Board()
	if b.KingInCheck(core.ColorWhite) {
		sb.WriteString("The White king is in check.\n")
	}
	if b.KingInCheck(core.ColorBlack) {
		sb.WriteString("The Black king is in check.\n")
	}

	fmt.Fprintf(&sb, "It is your turn (%s). Reply with your move.", c.color.Name())
	return sb.String()
}
