// FILE: internal/ai/conversation.go
package ai

const systemPrompt = "You are playing a game of chess. " +
	"Reply with exactly one move in coordinate notation such as e2e4, " +
	"or a piece letter plus destination such as Nf3, or O-O / O-O-O for castling. " +
	"Append =Q style suffixes for promotions. Do not explain your move."

// Conversation is the append-only role-tagged history sent to the completion
// service. Created at game start, discarded on reset.
type Conversation struct {
	messages     []Message
	moveHistory  []string
	moveCount    int
	firstRequest bool
}

func newConversation() *Conversation {
	return &Conversation{
		messages:     []Message{{Role: "system", Content: systemPrompt}},
		firstRequest: true,
	}
}

func (c *Conversation) append(role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// recordMove appends submitted notation to the history and bumps the
// per-side move counter that drives the rule-adherence policy.
func (c *Conversation) recordMove(notation string) {
	c.moveHistory = append(c.moveHistory, notation)
	c.moveCount++
}

// recentHistory returns up to the last n plies of game notation.
func recentHistory(moves []string, n int) []string {
	if len(moves) <= n {
		return moves
	}
	return moves[len(moves)-n:]
}
