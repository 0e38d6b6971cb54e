// FILE: internal/core/api.go
package core

// Request types

type CreateGameRequest struct {
	PlayerColor      string   `json:"playerColor,omitempty" validate:"omitempty,oneof=w b"`
	Model            string   `json:"model,omitempty" validate:"omitempty,max=100"`
	FEN              string   `json:"fen,omitempty" validate:"omitempty,max=100"`
	BreakThreshold   *int     `json:"breakThreshold,omitempty" validate:"omitempty,min=0,max=500"`
	BreakProbability *float64 `json:"breakProbability,omitempty" validate:"omitempty,min=0,max=1"`
	Seed             *int64   `json:"seed,omitempty"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=2,max=7"` // "e2e4", "Nf3", "O-O-O", "e7e8=Q"
}

// Response types

type GameResponse struct {
	GameID      string    `json:"gameId"`
	FEN         string    `json:"fen"`
	Turn        string    `json:"turn"`  // "w" or "b"
	State       string    `json:"state"` // "ongoing", "checkmate", etc
	Message     string    `json:"message,omitempty"`
	Moves       []string        `json:"moves"`
	PlayerColor string          `json:"playerColor"`
	Players     PlayersResponse `json:"players"`
	Check       CheckInfo       `json:"check"`
	LastMove    *MoveInfo       `json:"lastMove,omitempty"`
}

// PlayersResponse carries both side descriptors keyed by color.
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

type CheckInfo struct {
	White bool `json:"white"`
	Black bool `json:"black"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"`       // "w" or "b"
	Forced      bool   `json:"forced,omitempty"`  // applied outside standard legality
	Spawned     bool   `json:"spawned,omitempty"` // piece materialized rather than moved
}

type LegalMovesResponse struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
