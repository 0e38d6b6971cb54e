// FILE: internal/core/player.go
package core

import (
	"github.com/google/uuid"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerModel
)

// Player is one side of a game.
type Player struct {
	ID    string     `json:"id"`
	Color Color      `json:"color"`
	Type  PlayerType `json:"type"`
	Model string     `json:"model,omitempty"` // Only for model players
}

// NewPlayer creates a player with a fresh UUID.
func NewPlayer(t PlayerType, color Color, model string) *Player {
	p := &Player{
		ID:    uuid.New().String(),
		Color: color,
		Type:  t,
	}
	if t == PlayerModel {
		p.Model = model
	}
	return p
}
